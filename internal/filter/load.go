package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// LoadPatterns reads a JSONC file holding an array of glob patterns.
// Comments and trailing commas are allowed; blank entries are dropped.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", path, err)
	}

	clean := jsonc.ToJSONInPlace(data)

	var raw []string
	if err := json.Unmarshal(clean, &raw); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", path, err)
	}

	patterns := raw[:0]

	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}

	return patterns, nil
}

// Patterns merges inline patterns with those loaded from an optional file.
func Patterns(inline []string, file string) ([]string, error) {
	patterns := append([]string{}, inline...)

	if file == "" {
		return patterns, nil
	}

	loaded, err := LoadPatterns(file)
	if err != nil {
		return nil, err
	}

	return append(patterns, loaded...), nil
}
