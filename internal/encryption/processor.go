package encryption

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/ctr"
	"github.com/idelchi/kryptos/internal/fileutil"
	"github.com/idelchi/kryptos/internal/logging"
)

// Processor transforms files in place with a single keystream session.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// session holds the expanded key schedule shared by every file
	session *ctr.Session

	// limit is the largest file size accepted, in bytes
	limit int64

	logger *logrus.Logger

	stdout io.Writer
	stderr io.Writer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration and session.
// The session is borrowed; the caller closes it.
func NewProcessor(cfg *config.Config, session *ctr.Session, logger *logrus.Logger) (*Processor, error) {
	limit, err := cfg.MaxBytes()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &Processor{
		cfg:     cfg,
		session: session,
		limit:   min(limit, ctr.MaxLength),
		logger:  logger,
		stdout:  color.Output,
		stderr:  color.Error,
	}, nil
}

// SetOutput redirects result lines and per-file error lines.
func (p *Processor) SetOutput(stdout, stderr io.Writer) {
	p.stdout = stdout
	p.stderr = stderr
}

// ProcessFiles concurrently transforms every configured file.
// A failing file does not stop the others. Once ctx is cancelled no new file is started;
// files already in progress run to completion.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles(ctx context.Context) (Summary, error) {
	files := p.unique(p.cfg.Files)

	p.results = make(chan Result, len(files))

	var summary Summary

	group := errgroup.Group{}
	group.SetLimit(max(1, p.cfg.Parallel))

	done := make(chan struct{})

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				summary.Errored++
				summary.Failures = append(summary.Failures, result.Error)

				fmt.Fprintf(p.stderr, "%s %q: %v\n", bad("Error processing"), result.Path, result.Error)

				continue
			}

			summary.Processed++

			summary.TotalSize += result.Size

			if !p.cfg.Quiet {
				//nolint:gosec // sizes are never negative
				fmt.Fprintf(p.stdout, "%s %q (%s)\n", ok(pastTense(p.cfg.Verb())), result.Path,
					humanize.IBytes(uint64(result.Size)))
			}
		}
	}()

	for i, file := range files {
		if ctx.Err() != nil {
			summary.Skipped = len(files) - i

			p.logger.WithField("remaining", summary.Skipped).Warn("cancelled, not starting remaining files")

			break
		}

		group.Go(func() error {
			size, err := p.processFile(file)
			if err != nil {
				p.results <- Result{Path: file, Error: err}

				return err
			}

			p.results <- Result{Path: file, Size: size}

			return nil
		})
	}

	// Errors are reported per file by the printer.
	_ = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if summary.Errored > 0 {
		return summary, fmt.Errorf("%w: %d of %d file(s)", ErrProcessing, summary.Errored, len(files))
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("processing files: %w", err)
	}

	return summary, nil
}

// processFile reads, transforms and overwrites one file.
func (p *Processor) processFile(path string) (int64, error) {
	log := p.logger.WithField("path", path)

	data, info, err := fileutil.ReadWhole(path, p.limit)
	if err != nil {
		return 0, &FileError{Path: path, Phase: PhaseRead, Err: err}
	}

	defer clear(data)

	if int64(len(data)) > ctr.MaxLength {
		return 0, &FileError{Path: path, Phase: PhaseTransform, Err: ErrTooLarge}
	}

	log.WithFields(logrus.Fields{
		"size":   len(data),
		"blocks": ctr.Blocks(len(data)),
	}).Debug("transforming")

	p.session.XORKeyStream(data, data)

	if err := fileutil.Overwrite(path, data); err != nil {
		log.WithError(err).Warn("write failed, file may be partially overwritten")

		return 0, &FileError{Path: path, Phase: PhaseWrite, Err: err}
	}

	// The content is final here, so a timestamp failure does not fail the file.
	if p.cfg.PreserveTimestamps {
		if err := fileutil.RestoreTimestamps(path, info.ModTime()); err != nil {
			log.WithError(err).Warn("content written, timestamps not restored")
		}
	}

	log.Infof("%sed", p.cfg.Verb())

	return int64(len(data)), nil
}

// unique drops paths naming a file already listed, whether spelled the same, relative or absolute,
// or through a symlink or hard link. Transforming one file twice would restore the plaintext.
// Paths that cannot be stat'ed are kept so that processing reports the error.
func (p *Processor) unique(files []string) []string {
	seen := fileutil.NewSeen()
	names := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))

	for _, f := range files {
		if _, ok := names[f]; ok {
			continue
		}

		names[f] = struct{}{}

		if info, err := os.Stat(f); err == nil {
			if _, added := seen.Add(info); !added {
				p.logger.WithField("path", f).Debug("skipping, same file listed under another name")

				continue
			}
		}

		out = append(out, f)
	}

	return out
}

func pastTense(verb string) string {
	switch verb {
	case "decrypt":
		return "Decrypted"
	default:
		return "Encrypted"
	}
}
