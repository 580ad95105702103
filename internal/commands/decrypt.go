package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// Decryption runs the same transform as encryption.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files in place",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg, "")(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnv(cmd, cfg)
			if err != nil {
				return err
			}

			return logic.Run(cmd.Context(), cfg, env)
		},
	}
}
