package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables, e.g. KRYPTOS_PARALLEL.
const EnvPrefix = "KRYPTOS"

// Load populates cfg from, in order of precedence: flags, KRYPTOS_* environment variables,
// the file named by --config, and flag defaults.
func Load(v *viper.Viper, flags *pflag.FlagSet, cfg *Config) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// The password has no flag so that it never ends up in shell history.
	if err := v.BindEnv("password"); err != nil {
		return fmt.Errorf("binding password: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}
