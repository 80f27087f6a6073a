// Package cli implements the futility command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd builds the futility command tree. Each call gets its own
// viper instance, so commands can be built repeatedly in tests.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "futility",
		Short: "Run scripted programs through a lifecycle controller",
		Long: `futility runs scenario files through the install/main lifecycle controller,
tracing every step, recovered failure, exit hook and the final result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRunCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// initConfig reads in the config file and FUTILITY_* environment variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("FUTILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "futility %s\n", Version)
		},
	}
}
