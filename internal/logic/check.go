package logic

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/filter"
	"github.com/idelchi/kryptos/pkg/pathmatch"
)

// RunCheck validates that every include/exclude pattern matches at least one file.
func RunCheck(cfg *config.Config, env Env) error {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return err
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return errors.New("no include or exclude patterns to check")
	}

	candidates, err := filter.Walk(cfg.Files)
	if err != nil {
		return err
	}

	var failures int

	failures += checkPatterns(env.Stderr, "include", includes, candidates, cfg.Quiet)
	failures += checkPatterns(env.Stderr, "exclude", excludes, candidates, cfg.Quiet)

	if failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files.
func checkPatterns(w io.Writer, kind string, patterns []string, candidates []filter.Candidate, quiet bool) int {
	var failures int

	errorf := color.New(color.FgRed).FprintfFunc()

	for _, pattern := range patterns {
		matcher, err := pathmatch.NewMatcher([]string{pattern})
		if err != nil {
			errorf(w, "%s: %s: invalid pattern: %v\n", kind, pattern, err)

			failures++

			continue
		}

		var count int

		for _, c := range candidates {
			if matcher.MatchAny(c.Rel) {
				count++
			}
		}

		if count == 0 {
			errorf(w, "%s: %s: 0 files (ERROR)\n", kind, pattern)

			failures++
		} else if !quiet {
			fmt.Fprintf(w, "%s: %s: %d files\n", kind, pattern, count)
		}
	}

	return failures
}
