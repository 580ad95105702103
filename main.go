// Command kryptos encrypts and decrypts files in place under a password.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/idelchi/kryptos/internal/commands"
	"github.com/idelchi/kryptos/internal/config"
)

// version is set at build time.
var version = "unknown - unofficial build"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)

		return 1
	}

	return 0
}
