package aes256

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

//go:embed kat.csv
var katCSV string

// Vector is a single known-answer test case.
type Vector struct {
	Name       string
	Key        []byte
	Plaintext  []byte
	Ciphertext []byte
}

// Report summarizes a SelfTest run.
type Report struct {
	Total    int
	Passed   int
	Failures []string
}

// OK reports whether every vector passed.
func (r Report) OK() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// ErrSelfTest is returned by SelfTest when at least one vector fails.
var ErrSelfTest = errors.New("aes256: self-test failed")

// KnownAnswers parses the embedded FIPS-197 and SP 800-38A vectors.
func KnownAnswers() ([]Vector, error) {
	records, err := csv.NewReader(strings.NewReader(katCSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading vectors: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("reading vectors: empty table")
	}

	vectors := make([]Vector, 0, len(records)-1)

	for _, record := range records[1:] {
		vector := Vector{Name: record[0]}

		fields := []*[]byte{&vector.Key, &vector.Plaintext, &vector.Ciphertext}

		for i, field := range fields {
			if *field, err = hex.DecodeString(record[i+1]); err != nil {
				return nil, fmt.Errorf("vector %q: %w", vector.Name, err)
			}
		}

		vectors = append(vectors, vector)
	}

	return vectors, nil
}

// SelfTest checks the cipher against every known-answer vector in both directions.
func SelfTest() (Report, error) {
	vectors, err := KnownAnswers()
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(vectors)}

	for _, vector := range vectors {
		if reason := check(vector); reason != "" {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %s", vector.Name, reason))

			continue
		}

		report.Passed++
	}

	if !report.OK() {
		return report, fmt.Errorf("%w: %d of %d vectors", ErrSelfTest, report.Total-report.Passed, report.Total)
	}

	return report, nil
}

func check(vector Vector) string {
	schedule, err := Expand(vector.Key)
	if err != nil {
		return err.Error()
	}

	got := make([]byte, BlockSize)

	schedule.EncryptBlock(got, vector.Plaintext)

	if !bytes.Equal(got, vector.Ciphertext) {
		return fmt.Sprintf("encrypt: got %x, want %x", got, vector.Ciphertext)
	}

	schedule.DecryptBlock(got, vector.Ciphertext)

	if !bytes.Equal(got, vector.Plaintext) {
		return fmt.Sprintf("decrypt: got %x, want %x", got, vector.Plaintext)
	}

	return ""
}
