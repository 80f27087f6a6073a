package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/baxromumarov/futility/internal/logging"
	"github.com/baxromumarov/futility/internal/scenario"
	"github.com/baxromumarov/futility/promhook"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file",
		Long: `Run executes the scenario's install steps (if any) and main steps through the
lifecycle controller and prints a trace to stdout. The command fails with the
scenario's final error. A step that panics crashes the process after the
fault handlers have run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(v.GetString("log_level"))
			if err != nil {
				return err
			}

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			opts := scenario.Options{
				Out:          cmd.OutOrStdout(),
				Logger:       logging.New(cmd.ErrOrStderr(), level),
				ReportFaults: v.GetBool("report_faults"),
			}

			var reg *prometheus.Registry
			if v.GetBool("metrics") {
				reg = prometheus.NewRegistry()
				opts.Metrics = promhook.New(reg)
			}

			runErr := scenario.Run(s, opts)

			if reg != nil {
				if err := writeMetrics(cmd.OutOrStdout(), reg); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().Bool("metrics", false, "print Prometheus metrics after the run")
	cmd.Flags().Bool("report-faults", true, "trace faults raised by panicking steps")
	_ = v.BindPFlag("metrics", cmd.Flags().Lookup("metrics"))
	_ = v.BindPFlag("report_faults", cmd.Flags().Lookup("report-faults"))

	return cmd
}

// writeMetrics dumps reg in the Prometheus text exposition format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
