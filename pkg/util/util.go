package util

import "sort"

// SortedUnique returns a sorted copy of the given slice with exact-string
// duplicates removed. The input slice is not modified.
func SortedUnique(items []string) []string {
	result := make([]string, len(items))
	copy(result, items)
	sort.Strings(result)

	unique := result[:0]
	for i, item := range result {
		if i == 0 || result[i-1] != item {
			unique = append(unique, item)
		}
	}
	return unique
}
