package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formtree/pkg/element"
)

// MustLoadElements loads a JSON golden file holding an element sequence.
func MustLoadElements(t *testing.T, path string) []element.Element {
	t.Helper()

	elements, err := LoadElements(path)
	if err != nil {
		t.Fatalf("load elements: %v", err)
	}
	return elements
}

// LoadElements reads a JSON fixture into an element sequence, returning an
// error for callers managing setup outside of *testing.T.
func LoadElements(path string) ([]element.Element, error) {
	if path == "" {
		return nil, errors.New("testsupport: elements path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read elements: %w", err)
	}
	var out []element.Element
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal elements: %w", err)
	}
	return out, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareElements returns a diff between two element sequences, treating nil
// and empty slices as equal since JSON goldens cannot tell them apart.
func CompareElements(want, got []element.Element) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}
