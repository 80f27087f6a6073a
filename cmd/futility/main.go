// Command futility runs scenario files through the futility lifecycle
// controller. The command itself is driven by the same controller.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/baxromumarov/futility"
	"github.com/baxromumarov/futility/internal/cli"
	"github.com/baxromumarov/futility/internal/logging"
)

func main() {
	if err := run(cli.Execute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run drives cmd through the lifecycle controller. A failure comes back
// annotated with the program name.
func run(cmd func() error) error {
	return futility.New[error]().
		Install(func() error {
			slog.SetDefault(logging.New(os.Stderr, slog.LevelInfo))
			return nil
		}).
		OnError(futility.Annotate("futility")).
		AtExit(func() {
			_ = os.Stdout.Sync()
		}).
		Execute(cmd)
}
