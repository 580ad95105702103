package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files in place",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = false

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
