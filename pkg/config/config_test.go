package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
defaults:
  import-mappings:
    sklearn: scikit-learn
    cv2: opencv-python
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	mappings, err := LoadMappings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Mappings{"sklearn": "scikit-learn", "cv2": "opencv-python"}
	if !reflect.DeepEqual(mappings, expected) {
		t.Errorf("Unexpected result. Expected: %v. Actual: %v", expected, mappings)
	}
}

func TestLoadMappingsAbsentFile(t *testing.T) {
	mappings, err := LoadMappings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("an absent file must not be an error, got: %v", err)
	}
	if len(mappings) != 0 {
		t.Errorf("expected an empty mapping, got: %v", mappings)
	}
}

func TestLoadMappingsParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("defaults: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMappings(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		mappings Mappings
		modules  []string
		expected []string
	}{
		{
			name:     "mapped entries replaced, others unchanged",
			mappings: Mappings{"a": "x"},
			modules:  []string{"a", "b"},
			expected: []string{"x", "b"},
		},
		{
			name:     "empty mapping is the identity",
			mappings: Mappings{},
			modules:  []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "nil mapping is the identity",
			mappings: nil,
			modules:  []string{"a"},
			expected: []string{"a"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.mappings.Apply(tc.modules)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Unexpected result. Expected: %v. Actual: %v", tc.expected, result)
			}
		})
	}
}
