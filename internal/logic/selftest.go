package logic

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/idelchi/kryptos/internal/aes256"
	"github.com/idelchi/kryptos/internal/ctr"
)

// Expected output for password "hunter2" over the bytes 0x00..0x13.
const (
	roundTripPassword = "hunter2"
	roundTripOutput   = "802ea6a45317e23ef43bb07ebb9e4c530f563b73"
)

// RunSelfTest checks the block cipher against the embedded known-answer vectors and the stream
// mode against a pinned round trip, then prints TOTAL and PASSED counts.
func RunSelfTest(env Env) error {
	report, err := aes256.SelfTest()
	if err != nil && !errors.Is(err, aes256.ErrSelfTest) {
		return fmt.Errorf("running self-test: %w", err)
	}

	failures := report.Failures

	total, passed := report.Total+1, report.Passed

	if reason := checkRoundTrip(); reason != "" {
		failures = append(failures, "ctr round trip: "+reason)
	} else {
		passed++
	}

	for _, failure := range failures {
		fmt.Fprintf(env.Stderr, "FAIL %s\n", failure)
	}

	fmt.Fprintf(env.Stdout, "TOTAL: %d\n", total)
	fmt.Fprintf(env.Stdout, "PASSED: %d\n", passed)

	env.Logger.WithField("total", total).WithField("passed", passed).Debug("self-test finished")

	if passed != total {
		return fmt.Errorf("%w: %d of %d checks", aes256.ErrSelfTest, total-passed, total)
	}

	return nil
}

func checkRoundTrip() string {
	session, err := ctr.FromPassword([]byte(roundTripPassword))
	if err != nil {
		return err.Error()
	}
	defer session.Close()

	original := make([]byte, 20)
	for i := range original {
		original[i] = byte(i)
	}

	buf := bytes.Clone(original)

	session.Encrypt(buf)

	if got := hex.EncodeToString(buf); got != roundTripOutput {
		return fmt.Sprintf("encrypt: got %s, want %s", got, roundTripOutput)
	}

	session.Decrypt(buf)

	if !bytes.Equal(buf, original) {
		return fmt.Sprintf("decrypt: got %x, want %x", buf, original)
	}

	return ""
}
