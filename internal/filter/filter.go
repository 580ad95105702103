// Package filter selects files from positional paths and include/exclude glob patterns.
package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/kryptos/internal/fileutil"
	"github.com/idelchi/kryptos/pkg/pathmatch"
)

// ErrNoFiles is returned when nothing is left to process after filtering.
var ErrNoFiles = errors.New("no files matched")

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes *pathmatch.Matcher
	excludes *pathmatch.Matcher
}

// NewFilter compiles include/exclude patterns into a reusable filter.
func NewFilter(includes, excludes []string) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(includes)
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc}, nil
}

// Match returns true if the relative path should be included.
func (f *Filter) Match(rel string, hasIncludes bool) bool {
	included := !hasIncludes || f.includes.MatchAny(rel)
	excluded := f.excludes.MatchAny(rel)

	return included && !excluded
}

// Candidate is a regular file found under a positional argument.
type Candidate struct {
	// Path is the path the file is opened with.
	Path string
	// Rel is Path relative to the directory argument it was found under, slash separated.
	// Patterns are matched against Rel.
	Rel string
	// Explicit is set for files named directly on the command line.
	Explicit bool
}

// Walk expands positional args into regular files. Files are returned as given; directories
// are walked recursively. Symlinks, devices and other non-regular entries inside directories
// are skipped. Each file appears once, under the first name it was reached by; it counts as
// explicit if any of its names was given directly.
func Walk(args []string) ([]Candidate, error) {
	var candidates []Candidate

	seen := fileutil.NewSeen()

	add := func(c Candidate, info os.FileInfo) {
		index, added := seen.Add(info)
		if added {
			candidates = append(candidates, c)

			return
		}

		candidates[index].Explicit = candidates[index].Explicit || c.Explicit
	}

	for _, arg := range args {
		if err := validatePath(arg); err != nil {
			return nil, err
		}

		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			// Explicit file: bypass filtering, add directly.
			if !info.Mode().IsRegular() {
				return nil, fmt.Errorf("%q: %w", arg, fileutil.ErrNotRegular)
			}

			add(Candidate{Path: arg, Rel: filepath.ToSlash(arg), Explicit: true}, info)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.Type().IsRegular() {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("getting file info for %q: %w", path, err)
			}

			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return fmt.Errorf("relativizing %q: %w", path, err)
			}

			add(Candidate{Path: path, Rel: filepath.ToSlash(rel)}, info)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	return candidates, nil
}

// Resolve takes positional args (files/directories) and include/exclude patterns.
// Files are added directly (bypassing filtering). Directories are walked and filtered.
// hasIncludes indicates whether include filtering was requested (flag provided),
// regardless of whether the pattern list is empty.
// Returns matched files and total candidates scanned.
func Resolve(args, includes, excludes []string, hasIncludes bool) (files []string, scanned int, err error) {
	flt, err := NewFilter(includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	candidates, err := Walk(args)
	if err != nil {
		return nil, 0, err
	}

	for _, c := range candidates {
		scanned++

		if c.Explicit || flt.Match(c.Rel, hasIncludes) {
			files = append(files, c.Path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("%w the provided patterns: %v", ErrNoFiles, args)
	}

	return files, scanned, nil
}

// validatePath rejects arguments that would sweep the whole filesystem.
func validatePath(path string) error {
	if path == "" {
		return errors.New("empty path")
	}

	clean := filepath.Clean(path)
	if clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("refusing to process the filesystem root: %q", path)
	}

	return nil
}
