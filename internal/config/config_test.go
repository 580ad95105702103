package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/idelchi/gogen/pkg/validator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/kryptos/internal/config"
)

func valid() config.Config {
	return config.Config{
		Parallel:  4,
		MaxSize:   "1GiB",
		LogLevel:  "info",
		LogFormat: "text",
		Files:     []string{"."},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{
			name:    "no files",
			mutate:  func(c *config.Config) { c.Files = nil },
			wantErr: "Files must contain at least 1 item",
		},
		{
			name:    "zero parallel",
			mutate:  func(c *config.Config) { c.Parallel = 0 },
			wantErr: "--parallel must be 1 or greater",
		},
		{
			name:    "bad size",
			mutate:  func(c *config.Config) { c.MaxSize = "lots" },
			wantErr: "--max-size must be a size",
		},
		{
			name:    "size beyond counter space",
			mutate:  func(c *config.Config) { c.MaxSize = "65GiB" },
			wantErr: "--max-size must be a size",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *config.Config) { c.LogLevel = "trace" },
			wantErr: "--log-level must be one of",
		},
		{
			name:    "missing size",
			mutate:  func(c *config.Config) { c.MaxSize = "" },
			wantErr: "--max-size is a required field",
		},
		{
			name: "password twice",
			mutate: func(c *config.Config) {
				c.Password = "env"
				c.PasswordFile = "pw.txt"
			},
			wantErr: "KRYPTOS_PASSWORD is mutually exclusive with PasswordFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, validator.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryFailure(t *testing.T) {
	t.Parallel()

	cfg := valid()
	cfg.Parallel = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.ErrorIs(t, err, validator.ErrValidation)
	assert.Contains(t, err.Error(), "--parallel must be 1 or greater")
	assert.Contains(t, err.Error(), "--log-format must be one of [text json]")
}

func TestMaxBytes(t *testing.T) {
	t.Parallel()

	cfg := valid()
	cfg.MaxSize = "2MiB"

	size, err := cfg.MaxBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), size)

	cfg.MaxSize = "3 kB"

	size, err = cfg.MaxBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(3000), size)
}

func TestVerb(t *testing.T) {
	t.Parallel()

	cfg := valid()
	assert.Equal(t, "encrypt", cfg.Verb())

	cfg.Decrypt = true
	assert.Equal(t, "decrypt", cfg.Verb())
}

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	fs.String("config", "", "")
	fs.Int("parallel", 2, "")
	fs.Bool("quiet", false, "")
	fs.String("max-size", "1GiB", "")
	fs.String("password-file", "", "")
	fs.StringSlice("exclude", nil, "")
	fs.String("log-level", "info", "")
	fs.String("log-format", "text", "")

	return fs
}

// Environment-dependent tests cannot run in parallel.
//
//nolint:paralleltest
func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kryptos.yml")

	require.NoError(t, os.WriteFile(file, []byte("parallel: 8\nmax-size: 64MiB\nquiet: true\n"), 0o600))

	t.Setenv("KRYPTOS_MAX_SIZE", "16MiB")
	t.Setenv("KRYPTOS_PASSWORD", "from-env")

	fs := flags()
	require.NoError(t, fs.Parse([]string{"--config", file, "--log-level", "debug", "--exclude", "*.log"}))

	var cfg config.Config
	require.NoError(t, config.Load(viper.New(), fs, &cfg))

	assert.Equal(t, 8, cfg.Parallel, "config file beats flag default")
	assert.Equal(t, "16MiB", cfg.MaxSize, "environment beats config file")
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "debug", cfg.LogLevel, "explicit flag wins")
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, []string{"*.log"}, cfg.Exclude)
	assert.Equal(t, "text", cfg.LogFormat)
}

//nolint:paralleltest
func TestLoadMissingConfigFile(t *testing.T) {
	fs := flags()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "absent.yml")}))

	var cfg config.Config

	err := config.Load(viper.New(), fs, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}
