// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/ctr"
	"github.com/idelchi/kryptos/internal/encryption"
	"github.com/idelchi/kryptos/internal/filter"
	"github.com/idelchi/kryptos/internal/prompt"
)

// Env holds the collaborators a command runs against.
type Env struct {
	Logger   *logrus.Logger
	Prompter *prompt.Prompter
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run is the main logic of the application.
func Run(ctx context.Context, cfg *config.Config, env Env) error {
	scanned, excluded, start, done, err := preamble(cfg, env)
	if done || err != nil {
		return err
	}

	password, err := prompt.Acquire(cfg, env.Prompter)
	if err != nil {
		return fmt.Errorf("getting password: %w", err)
	}
	defer clear(password)

	if !cfg.Yes {
		if err := prompt.Warn(env.Prompter, cfg.Verb(), len(cfg.Files)); err != nil {
			return err
		}
	}

	session, err := ctr.FromPassword(password)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	defer session.Close()

	proc, err := encryption.NewProcessor(cfg, session, env.Logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	proc.SetOutput(env.Stdout, env.Stderr)

	summary, err := proc.ProcessFiles(ctx)

	if cfg.Stats {
		printStats(env.Stderr, scanned, excluded, summary, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// preamble resolves files and handles dry run. Returns done=true if dry run was executed.
func preamble(cfg *config.Config, env Env) (int, int, time.Time, bool, error) {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return 0, 0, start, false, fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	env.Logger.WithFields(logrus.Fields{
		"scanned":  scanned,
		"excluded": excluded,
		"selected": len(cfg.Files),
	}).Debug("resolved files")

	if cfg.Dry {
		dryRun(cfg, env, scanned, excluded, start)

		return scanned, excluded, start, true, nil
	}

	return scanned, excluded, start, false, nil
}

// resolveFiles expands positional args and applies include/exclude filtering.
// Returns the total number of files scanned before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return 0, err
	}

	hasIncludes := len(cfg.Include) > 0 || cfg.IncludeFrom != ""

	files, scanned, err := filter.Resolve(cfg.Files, includes, excludes, hasIncludes)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// loadPatterns merges CLI and file-based include/exclude patterns.
func loadPatterns(cfg *config.Config) (includes, excludes []string, err error) {
	includes, err = filter.Patterns(cfg.Include, cfg.IncludeFrom)
	if err != nil {
		return nil, nil, fmt.Errorf("loading include patterns: %w", err)
	}

	excludes, err = filter.Patterns(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return nil, nil, fmt.Errorf("loading exclude patterns: %w", err)
	}

	return includes, excludes, nil
}

// dryRun previews what would be processed without touching any file.
func dryRun(cfg *config.Config, env Env, scanned, excluded int, start time.Time) {
	var summary encryption.Summary

	for _, file := range cfg.Files {
		var size int64

		if info, err := os.Stat(file); err == nil {
			size = info.Size()
		}

		summary.Processed++
		summary.TotalSize += size

		if !cfg.Quiet {
			//nolint:gosec // sizes are never negative
			fmt.Fprintf(env.Stdout, "Would %s %q (%s)\n", cfg.Verb(), file, humanize.IBytes(uint64(size)))
		}
	}

	if cfg.Stats {
		printStats(env.Stderr, scanned, excluded, summary, time.Since(start))
	}
}

func printStats(w io.Writer, scanned, excluded int, summary encryption.Summary, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(w, "  Processed: %d\n", summary.Processed)
	fmt.Fprintf(w, "  Errors:    %d\n", summary.Errored)

	if summary.Skipped > 0 {
		fmt.Fprintf(w, "  Skipped:   %d\n", summary.Skipped)
	}

	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, summary.TotalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
