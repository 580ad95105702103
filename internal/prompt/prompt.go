// Package prompt obtains the password and the user's go-ahead for irreversible operations.
package prompt

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/idelchi/kryptos/internal/config"
)

var (
	// ErrMismatch is returned when the confirmation differs from the password.
	ErrMismatch = errors.New("passwords do not match")
	// ErrEmpty is returned for an empty password.
	ErrEmpty = errors.New("password must not be empty")
	// ErrAborted is returned when the user declines the warning.
	ErrAborted = errors.New("aborted by user")
)

// Prompter reads answers from a terminal or, when input is piped, line by line.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

// New returns a prompter over stdin. Secrets are read without echo when stdin is a terminal.
func New(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd()) //nolint:gosec // file descriptors fit in int

	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		fd:          fd,
		interactive: term.IsTerminal(fd),
	}
}

// NewFromReader returns a non-interactive prompter reading one answer per line from r.
func NewFromReader(r io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: out, fd: -1}
}

// Password prints label and reads one password.
func (p *Prompter) Password(label string) ([]byte, error) {
	fmt.Fprint(p.out, label)

	if p.interactive {
		password, err := term.ReadPassword(p.fd)

		fmt.Fprintln(p.out)

		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}

		return password, nil
	}

	line, err := p.line()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return []byte(line), nil
}

// PasswordConfirm reads a password twice and ensures they match.
func (p *Prompter) PasswordConfirm() ([]byte, error) {
	first, err := p.Password("Enter password: ")
	if err != nil {
		return nil, err
	}

	if len(first) == 0 {
		return nil, ErrEmpty
	}

	second, err := p.Password("Confirm password: ")
	if err != nil {
		clear(first)

		return nil, err
	}
	defer clear(second)

	if subtle.ConstantTimeCompare(first, second) != 1 {
		clear(first)

		return nil, ErrMismatch
	}

	return first, nil
}

// Confirm asks a yes/no question defaulting to no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	answer, err := p.line()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)

		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// line reads one line without its terminator. A final line without newline is returned as is.
func (p *Prompter) line() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Acquire returns the password from KRYPTOS_PASSWORD, the password file, or an interactive
// prompt with confirmation, in that order.
func Acquire(cfg *config.Config, p *Prompter) ([]byte, error) {
	var (
		password []byte
		err      error
	)

	switch {
	case cfg.Password != "":
		password = []byte(cfg.Password)
	case cfg.PasswordFile != "":
		password, err = FromFile(cfg.PasswordFile)
	default:
		password, err = p.PasswordConfirm()
	}

	if err != nil {
		return nil, err
	}

	if len(password) == 0 {
		return nil, ErrEmpty
	}

	return password, nil
}

// FromFile reads the first line of path as the password.
func FromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading password file: %w", err)
	}
	defer clear(data)

	line, _, _ := strings.Cut(string(data), "\n")

	return []byte(strings.TrimRight(line, "\r")), nil
}

// Warn explains that a wrong password cannot be detected and asks to continue.
// It returns ErrAborted unless the user agrees.
func Warn(p *Prompter, verb string, files int) error {
	fmt.Fprintf(p.out,
		"About to %s %d file(s) in place. There is no way to detect a wrong password:\n"+
			"using one permanently garbles the files and they cannot be recovered.\n", verb, files)

	ok, err := p.Confirm("Continue?")
	if err != nil {
		return err
	}

	if !ok {
		return ErrAborted
	}

	return nil
}
