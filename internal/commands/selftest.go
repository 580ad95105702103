package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/logic"
)

// NewSelfTestCommand creates a new cobra command for the selftest subcommand.
func NewSelfTestCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Check the cipher against published test vectors",
		Args:  cobra.NoArgs,
		// Files are irrelevant here; validate against the current directory.
		PreRunE: preRun(cfg, "."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnv(cmd, cfg)
			if err != nil {
				return err
			}

			return logic.RunSelfTest(env)
		},
	}
}
