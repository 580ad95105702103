// Package fileutil provides the whole-file read and in-place write helpers used by the processor.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	// ErrTooLarge is returned when a file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrNotRegular is returned for directories, devices, sockets and other non-regular files.
	ErrNotRegular = errors.New("not a regular file")
)

// Stat returns the file info for path, rejecting anything that is not a regular file.
func Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%q: %w", path, ErrNotRegular)
	}

	return info, nil
}

// ReadWhole reads the entire file at path into memory.
// Files larger than limit bytes are rejected before anything is read.
func ReadWhole(path string, limit int64) ([]byte, os.FileInfo, error) {
	info, err := Stat(path)
	if err != nil {
		return nil, nil, err
	}

	if info.Size() > limit {
		return nil, nil, tooLarge(path, info.Size(), limit)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the resolved file list
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", path, err)
	}

	// The file may have grown between stat and read.
	if int64(len(data)) > limit {
		return nil, nil, tooLarge(path, int64(len(data)), limit)
	}

	return data, info, nil
}

// Overwrite truncates the existing file at path and writes data to it in one call.
// Permission bits and ownership are those of the existing file.
//
// The write is not atomic: if it fails part way the file is left partially overwritten.
func Overwrite(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0) //nolint:gosec // path comes from the resolved file list
	if err != nil {
		return fmt.Errorf("opening %q for writing: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close() //nolint:errcheck,gosec // the write error is the one reported

		return fmt.Errorf("writing %q: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		file.Close() //nolint:errcheck,gosec // the sync error is the one reported

		return fmt.Errorf("syncing %q: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", path, err)
	}

	return nil
}

// RestoreTimestamps sets both access and modification time of path to modTime.
func RestoreTimestamps(path string, modTime time.Time) error {
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		return fmt.Errorf("preserving timestamps: %w", err)
	}

	return nil
}

func tooLarge(path string, size, limit int64) error {
	//nolint:gosec // sizes are never negative
	return fmt.Errorf("%w: %q is %s, limit is %s",
		ErrTooLarge, path, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
}
