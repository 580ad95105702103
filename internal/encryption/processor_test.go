package encryption_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/kryptos/internal/config"
	"github.com/idelchi/kryptos/internal/ctr"
	"github.com/idelchi/kryptos/internal/encryption"
)

func newConfig(files ...string) *config.Config {
	return &config.Config{
		Parallel:  2,
		MaxSize:   "1MiB",
		LogLevel:  "info",
		LogFormat: "text",
		Files:     files,
	}
}

func newSession(t *testing.T, password string) *ctr.Session {
	t.Helper()

	session, err := ctr.FromPassword([]byte(password))
	require.NoError(t, err)

	t.Cleanup(session.Close)

	return session
}

type harness struct {
	proc   *encryption.Processor
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	hook   *test.Hook
}

func newHarness(t *testing.T, cfg *config.Config, password string) harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	proc, err := encryption.NewProcessor(cfg, newSession(t, password), logger)
	require.NoError(t, err)

	h := harness{proc: proc, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, hook: hook}
	proc.SetOutput(h.stdout, h.stderr)

	return h
}

func writeFiles(t *testing.T, contents map[string][]byte) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(contents))

	for name, data := range contents {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o640))

		paths = append(paths, path)
	}

	return dir, paths
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	originals := map[string][]byte{
		"empty":   {},
		"short":   []byte("hi"),
		"block":   bytes.Repeat([]byte{0x42}, 16),
		"partial": bytes.Repeat([]byte("0123456789"), 7),
	}

	_, paths := writeFiles(t, originals)

	cfg := newConfig(paths...)

	summary, err := newHarness(t, cfg, "hunter2").proc.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(originals), summary.Processed)
	assert.Equal(t, int64(2+16+70), summary.TotalSize)

	reference := newSession(t, "hunter2")

	for _, path := range paths {
		got, err := os.ReadFile(path)
		require.NoError(t, err)

		want := bytes.Clone(originals[filepath.Base(path)])
		reference.Encrypt(want)

		assert.Equal(t, want, got, "%s: ciphertext", path)
	}

	cfg.Decrypt = true

	h := newHarness(t, cfg, "hunter2")

	_, err = h.proc.ProcessFiles(context.Background())
	require.NoError(t, err)

	for _, path := range paths {
		got, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, originals[filepath.Base(path)], got, "%s: round trip", path)
	}

	assert.Contains(t, h.stdout.String(), "Decrypted")
	assert.Empty(t, h.stderr.String())
}

func TestPermissionsKept(t *testing.T) {
	t.Parallel()

	_, paths := writeFiles(t, map[string][]byte{"a": []byte("abc")})

	_, err := newHarness(t, newConfig(paths...), "pw").proc.ProcessFiles(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestPreserveTimestamps(t *testing.T) {
	t.Parallel()

	_, paths := writeFiles(t, map[string][]byte{"a": []byte("abc")})

	old := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, os.Chtimes(paths[0], old, old))

	cfg := newConfig(paths...)
	cfg.PreserveTimestamps = true

	_, err := newHarness(t, cfg, "pw").proc.ProcessFiles(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))
}

func TestTooLargeLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	big := bytes.Repeat([]byte{1}, 2048)
	_, paths := writeFiles(t, map[string][]byte{"big": big})

	cfg := newConfig(paths...)
	cfg.MaxSize = "1KiB"

	h := newHarness(t, cfg, "pw")

	summary, err := h.proc.ProcessFiles(context.Background())
	require.ErrorIs(t, err, encryption.ErrProcessing)
	assert.Equal(t, 1, summary.Errored)
	assert.Contains(t, h.stderr.String(), "file too large")

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestFailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	dir, paths := writeFiles(t, map[string][]byte{"ok": []byte("fine")})

	missing := filepath.Join(dir, "missing")
	cfg := newConfig(missing, paths[0])

	h := newHarness(t, cfg, "pw")

	summary, err := h.proc.ProcessFiles(context.Background())
	require.ErrorIs(t, err, encryption.ErrProcessing)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Errored)
	assert.Contains(t, h.stderr.String(), missing)

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.NotEqual(t, []byte("fine"), got)
}

func TestFileErrorPhase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := &encryption.FileError{Path: dir, Phase: encryption.PhaseRead, Err: encryption.ErrNotRegular}

	var fileErr *encryption.FileError
	require.ErrorAs(t, error(err), &fileErr)
	assert.ErrorIs(t, err, encryption.ErrNotRegular)
	assert.False(t, fileErr.PartialWrite())
	assert.Contains(t, err.Error(), "read")

	writeErr := &encryption.FileError{Path: dir, Phase: encryption.PhaseWrite, Err: errors.New("disk full")}
	assert.True(t, writeErr.PartialWrite())
}

func TestCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	_, paths := writeFiles(t, map[string][]byte{"a": []byte("abc"), "b": []byte("def")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, newConfig(paths...), "pw")

	summary, err := h.proc.ProcessFiles(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Processed)

	for _, path := range paths {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		assert.Contains(t, []string{"abc", "def"}, string(got))
	}
}

func TestDuplicatesProcessedOnce(t *testing.T) {
	t.Parallel()

	_, paths := writeFiles(t, map[string][]byte{"a": []byte("abc")})

	summary, err := newHarness(t, newConfig(paths[0], paths[0]), "pw").proc.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.NotEqual(t, []byte("abc"), got, "a second pass would have restored the plaintext")
}

func TestQuietAndLogging(t *testing.T) {
	t.Parallel()

	_, paths := writeFiles(t, map[string][]byte{"a": []byte("abc")})

	cfg := newConfig(paths...)
	cfg.Quiet = true

	h := newHarness(t, cfg, "pw")

	_, err := h.proc.ProcessFiles(context.Background())
	require.NoError(t, err)

	assert.Empty(t, h.stdout.String())

	var sawDebug bool

	for _, entry := range h.hook.AllEntries() {
		assert.Equal(t, paths[0], entry.Data["path"])

		if entry.Level == logrus.DebugLevel {
			sawDebug = true

			assert.Equal(t, 1, entry.Data["blocks"])
		}
	}

	assert.True(t, sawDebug)
	assert.Equal(t, "encrypted", h.hook.LastEntry().Message)
}

func TestSameFileUnderSeveralNamesProcessedOnce(t *testing.T) {
	t.Parallel()

	dir, paths := writeFiles(t, map[string][]byte{"secret": []byte("secret")})

	link := filepath.Join(dir, "link")
	if err := os.Symlink(paths[0], link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	hard := filepath.Join(dir, "hard")
	require.NoError(t, os.Link(paths[0], hard))

	sep := string(filepath.Separator)
	spelled := dir + sep + "." + sep + "secret"

	h := newHarness(t, newConfig(paths[0], link, spelled, hard), "pw")

	summary, err := h.proc.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, int64(len("secret")), summary.TotalSize)

	want := []byte("secret")
	newSession(t, "pw").Encrypt(want)

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, want, got, "a second pass would have restored the plaintext")

	var skipped int

	for _, entry := range h.hook.AllEntries() {
		if entry.Message == "skipping, same file listed under another name" {
			skipped++
		}
	}

	assert.Equal(t, 3, skipped)
}

func TestWriteFailureLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	_, paths := writeFiles(t, map[string][]byte{"readonly": []byte("abc")})
	require.NoError(t, os.Chmod(paths[0], 0o400))

	h := newHarness(t, newConfig(paths...), "pw")

	summary, err := h.proc.ProcessFiles(context.Background())
	require.ErrorIs(t, err, encryption.ErrProcessing)
	assert.Equal(t, 1, summary.Errored)
	require.Len(t, summary.Failures, 1)

	var fileErr *encryption.FileError
	require.ErrorAs(t, summary.Failures[0], &fileErr)
	assert.Equal(t, encryption.PhaseWrite, fileErr.Phase)
	assert.Equal(t, paths[0], fileErr.Path)
	assert.True(t, fileErr.PartialWrite())
	assert.ErrorIs(t, fileErr, os.ErrPermission)

	entry := h.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "write failed, file may be partially overwritten", entry.Message)
	assert.Equal(t, paths[0], entry.Data["path"])

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestReadFailureIsReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	summary, err := newHarness(t, newConfig(dir), "pw").proc.ProcessFiles(context.Background())
	require.ErrorIs(t, err, encryption.ErrProcessing)
	require.Len(t, summary.Failures, 1)

	var fileErr *encryption.FileError
	require.ErrorAs(t, summary.Failures[0], &fileErr)
	assert.Equal(t, encryption.PhaseRead, fileErr.Phase)
	assert.False(t, fileErr.PartialWrite())
	assert.ErrorIs(t, fileErr, encryption.ErrNotRegular)
}
