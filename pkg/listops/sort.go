package listops

import (
	"slices"
	"strings"
)

// Sort extracts the first integer of every non-blank line and sorts them ascending.
// Duplicates are kept. Values are printed without leading zeros.
func Sort(text string) Result {
	var numbers []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if run := numberPattern.FindString(line); run != "" {
			numbers = append(numbers, canonicalDigits(run))
		}
	}
	slices.SortStableFunc(numbers, compareDigits)
	return linesResult(OpSort, numbers, " ")
}

// SortNumbers is the string form of Sort.
func SortNumbers(text string) string {
	return Sort(text).Display()
}
