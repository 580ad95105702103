// Package config holds the runtime configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// Config holds the application configuration, populated from flags, environment and config file.
type Config struct {
	// ConfigFile is an optional YAML, TOML or JSON file with defaults for any flag.
	ConfigFile string `mapstructure:"config"`

	// Parallel is the number of files processed concurrently.
	Parallel int `mapstructure:"parallel" validate:"min=1"`
	// Quiet suppresses per-file result lines.
	Quiet bool `mapstructure:"quiet"`
	// Stats prints a summary after processing.
	Stats bool `mapstructure:"stats"`
	// Dry lists the files that would be processed and exits.
	Dry bool `mapstructure:"dry"`
	// Yes skips the irreversible-operation warning.
	Yes bool `mapstructure:"yes"`
	// PreserveTimestamps restores each file's modification time after it is overwritten.
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`
	// MaxSize is the largest file that will be loaded into memory, e.g. "512MiB".
	MaxSize string `mapstructure:"max-size" validate:"required,bytesize"`

	// Password comes from KRYPTOS_PASSWORD or the config file; it has no flag.
	Password string `mapstructure:"password" label:"KRYPTOS_PASSWORD" validate:"exclusive=PasswordFile"`
	// PasswordFile holds the password on its first line.
	PasswordFile string `mapstructure:"password-file" label:"--password-file"`

	Include     []string `mapstructure:"include"`
	Exclude     []string `mapstructure:"exclude"`
	IncludeFrom string   `mapstructure:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from"`

	LogLevel  string `mapstructure:"log-level"  label:"--log-level"  validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log-format" label:"--log-format" validate:"oneof=text json"`

	// Decrypt is set by the decrypt command. It only changes wording; the transform is the same.
	Decrypt bool `mapstructure:"-"`

	// Files are the positional arguments.
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Verb returns the operation name for messages.
func (c *Config) Verb() string {
	if c.Decrypt {
		return "decrypt"
	}

	return "encrypt"
}

// MaxBytes returns MaxSize in bytes.
func (c *Config) MaxBytes() (int64, error) {
	size, err := humanize.ParseBytes(c.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("parsing max size %q: %w", c.MaxSize, err)
	}

	//nolint:gosec // bounded by the bytesize validator
	return int64(size), nil
}

// HasPatterns reports whether any include or exclude pattern was given.
func (c *Config) HasPatterns() bool {
	return len(c.Include) > 0 || len(c.Exclude) > 0 || c.IncludeFrom != "" || c.ExcludeFrom != ""
}

// Validate validates the configuration against the struct tags.
// All failures are reported together, each wrapping validator.ErrValidation.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if errs := validate.Validate(c); len(errs) > 0 {
		slices.SortFunc(errs, func(a, b error) int {
			return strings.Compare(a.Error(), b.Error())
		})

		return fmt.Errorf("validating configuration:\n%w", errors.Join(errs...))
	}

	return nil
}
