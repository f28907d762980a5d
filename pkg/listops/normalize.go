package listops

import (
	"regexp"
	"strings"
)

var (
	decorationPattern = regexp.MustCompile(`💎|🍬|\(.*?\)`)
	listNumberPattern = regexp.MustCompile(`^\s*\d+\.\s*`)
)

// NameOnly reduces a line to its lower-cased item name for name-based comparison.
// Decorative glyphs, parenthetical annotations and a leading "N." list number are removed.
func NameOnly(line string) string {
	cleaned := decorationPattern.ReplaceAllString(line, "")
	cleaned = listNumberPattern.ReplaceAllString(cleaned, "")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// CleanDisplayLine removes decorative glyphs and parenthetical annotations,
// keeping the case and inner spacing of the line.
func CleanDisplayLine(line string) string {
	return strings.TrimSpace(decorationPattern.ReplaceAllString(line, ""))
}
