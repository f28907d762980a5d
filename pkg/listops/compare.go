package listops

import (
	"slices"
	"strings"
)

// Compare returns the lines of first whose identifier also appears in second,
// ordered by identifier. Lines always come from first, trimmed.
func Compare(first, second string) Result {
	return linesResult(OpCompare, CompareLists(first, second), "\n")
}

// CompareLists is the slice form of Compare. It returns nil when the lists share no identifier.
func CompareLists(first, second string) []string {
	left := indexByID(first)
	right := indexByID(second)

	var common []string
	for id := range left {
		if _, ok := right[id]; ok {
			common = append(common, id)
		}
	}
	if len(common) == 0 {
		return nil
	}
	slices.Sort(common)

	lines := make([]string, len(common))
	for i, id := range common {
		lines[i] = left[id]
	}
	return lines
}

// indexByID maps each identifier to the last trimmed line that carried it.
func indexByID(text string) map[string]string {
	index := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if id, ok := ExtractID(line); ok {
			index[id] = line
		}
	}
	return index
}
