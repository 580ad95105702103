package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/logging"
	"github.com/idelchi/kryptos/internal/logic"
	"github.com/idelchi/kryptos/internal/prompt"
)

// preRun returns a PreRunE handler that loads the configuration, resolves positional args
// into cfg.Files and validates the result. defaultDir is used when no args are given;
// an empty defaultDir leaves cfg.Files empty so that validation rejects the call.
func preRun(cfg *config.Config, defaultDir string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.Load(viper.New(), cmd.Flags(), cfg); err != nil {
			return err
		}

		switch {
		case len(args) > 0:
			cfg.Files = args
		case defaultDir != "":
			cfg.Files = []string{defaultDir}
		default:
			cfg.Files = nil
		}

		return cfg.Validate()
	}
}

// newEnv builds the logger, prompter and output streams for one command invocation.
func newEnv(cmd *cobra.Command, cfg *config.Config) (logic.Env, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return logic.Env{}, err
	}

	return logic.Env{
		Logger:   logger,
		Prompter: prompt.New(os.Stdin, cmd.ErrOrStderr()),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	}, nil
}
