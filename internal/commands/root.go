package commands

import (
	"runtime"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/spf13/cobra"

	"github.com/idelchi/kryptos/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// Every flag can also be set as KRYPTOS_<FLAG> or in the file given by --config.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "kryptos [flags] command [flags]"
	root.Short = "Password-based in-place file encryption"
	root.Long = `Encrypts and decrypts files in place with AES-256 in counter mode under a password.

Files keep their name and size; no header is written. Running the same command twice with the
same password restores the original. A wrong password cannot be detected and garbles the file,
so keep a backup until you have checked the result.

The password is read from KRYPTOS_PASSWORD, from --password-file, or interactively.`

	flags := root.PersistentFlags()
	flags.SortFlags = false

	flags.String("config", "", "Path to a YAML, TOML or JSON file with flag defaults")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary when done")
	flags.Bool("dry", false, "List the files that would be processed and exit")
	flags.BoolP("yes", "y", false, "Do not ask for confirmation before overwriting files")
	flags.String("password-file", "", "Read the password from the first line of this file")
	flags.String("max-size", "1GiB", "Largest file to load into memory, e.g. 512MiB")
	flags.Bool("preserve-timestamps", false, "Keep each file's modification time")

	flags.StringSliceP("include", "i", nil, "Only process files matching these glob patterns")
	flags.StringSliceP("exclude", "e", nil, "Skip files matching these glob patterns")
	flags.String("include-from", "", "JSONC file with an array of include patterns")
	flags.String("exclude-from", "", "JSONC file with an array of exclude patterns")

	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewCheckCommand(cfg),
		NewSelfTestCommand(cfg),
	)

	return root
}
