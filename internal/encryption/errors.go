package encryption

import (
	"errors"
	"fmt"

	"github.com/idelchi/kryptos/internal/fileutil"
)

var (
	// ErrTooLarge is returned for files above the configured size limit or the counter space.
	ErrTooLarge = fileutil.ErrTooLarge
	// ErrNotRegular is returned for paths that are not regular files.
	ErrNotRegular = fileutil.ErrNotRegular
	// ErrProcessing is returned by ProcessFiles when at least one file failed.
	ErrProcessing = errors.New("processing failed")
)

// Phase names the step in which a file failed.
type Phase string

const (
	// PhaseRead failures leave the file untouched.
	PhaseRead Phase = "read"
	// PhaseTransform failures leave the file untouched.
	PhaseTransform Phase = "transform"
	// PhaseWrite failures may leave the file partially overwritten.
	PhaseWrite Phase = "write"
)

// FileError reports a failure for one file.
type FileError struct {
	Path  string
	Phase Phase
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Phase, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// PartialWrite reports whether the file may have been left half-written.
func (e *FileError) PartialWrite() bool {
	return e.Phase == PhaseWrite
}
