package util

import (
	"reflect"
	"testing"
)

func TestSortedUnique(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "duplicates removed and sorted",
			input:    []string{"b", "a", "a"},
			expected: []string{"a", "b"},
		},
		{
			name:     "order independent",
			input:    []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			name:     "already unique",
			input:    []string{"x", "y"},
			expected: []string{"x", "y"},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SortedUnique(tc.input)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Unexpected result. Expected: %v. Actual: %v", tc.expected, result)
			}
		})
	}
}

func TestSortedUniqueDoesNotModifyInput(t *testing.T) {
	input := []string{"b", "a"}
	SortedUnique(input)
	if input[0] != "b" || input[1] != "a" {
		t.Errorf("input slice was modified: %v", input)
	}
}
