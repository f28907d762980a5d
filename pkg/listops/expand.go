package listops

import (
	"math"
	"strings"
)

// Expand repeats the identifier of every line as many times as its quantity.
func Expand(text string) Result {
	var tokens []string
	for _, line := range splitLines(strings.TrimSpace(text)) {
		entry, ok := ExtractEntry(line)
		if !ok {
			continue
		}
		for i := 0; i < entry.Quantity; i++ {
			tokens = append(tokens, entry.ID)
		}
	}
	return linesResult(OpExpand, tokens, " ")
}

// ExpandByQuantity is the string form of Expand.
// Unlike SortNumbers and FilterMultipleUnits it returns an empty string when nothing matches.
func ExpandByQuantity(text string) string {
	return Expand(text).Text
}

// ExpandedCount returns how many tokens Expand would produce for text, saturating at
// math.MaxInt. It lets callers refuse oversized expansions before building them.
func ExpandedCount(text string) int {
	total := 0
	for _, line := range splitLines(strings.TrimSpace(text)) {
		entry, ok := ExtractEntry(line)
		if !ok || entry.Quantity <= 0 {
			continue
		}
		if total > math.MaxInt-entry.Quantity {
			return math.MaxInt
		}
		total += entry.Quantity
	}
	return total
}
