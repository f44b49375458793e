// Command designctl inspects the model registry, manages provider keys and
// runs the redesign pipeline from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"interiorai/internal/infra"
)

// cli carries state shared by subcommands.
type cli struct {
	cfg    *infra.Config
	logger infra.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "designctl",
		Short:         "Interior redesign operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			infra.LoadDotEnv()
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = infra.NewLogger(cfg.AppEnv, "designctl").
				Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(levelFor(cmd))
			return nil
		},
	}
	root.PersistentFlags().Bool("verbose", false, "log pipeline progress to stderr")

	root.AddCommand(
		c.versionsCmd(),
		c.generateCmd(),
		c.credentialsCmd(),
	)
	return root
}

func levelFor(cmd *cobra.Command) zerolog.Level {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
