package listops

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	idPattern       = regexp.MustCompile(`\b(\d{5})\b`)
	quantityPattern = regexp.MustCompile(`\((\d+)x\)`)
	numberPattern   = regexp.MustCompile(`\d+`)
)

// Entry is the identifier and quantity found on a single list line.
type Entry struct {
	ID       string
	Quantity int
}

// ExtractEntry locates the first standalone 5-digit identifier of a line and the quantity
// annotated on the same line. The quantity defaults to 1 when the line has no "(Nx)"
// annotation or when N does not fit an int. "(0x)" yields a quantity of 0.
func ExtractEntry(line string) (Entry, bool) {
	id, ok := ExtractID(line)
	if !ok {
		return Entry{}, false
	}
	return Entry{ID: id, Quantity: quantityOf(line)}, true
}

// ExtractID returns the leftmost standalone 5-digit token of a line.
func ExtractID(line string) (string, bool) {
	m := idPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractIDs returns the set of identifiers found in text, one per line at most.
func ExtractIDs(text string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, line := range splitLines(text) {
		if id, ok := ExtractID(line); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// quantityDigits returns the digits of the first "(Nx)" annotation of a line.
func quantityDigits(line string) (string, bool) {
	m := quantityPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func quantityOf(line string) int {
	digits, ok := quantityDigits(line)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1
	}
	return n
}

// splitLines splits text at line boundaries: "\r\n", "\n", "\r", "\v", "\f",
// the file, group and record separators, NEL, U+2028 and U+2029.
// A trailing boundary does not open a new line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if !isLineBreak(r) {
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			// The "\r" already closed this line.
			start = i + 1
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// canonicalDigits drops leading zeros, keeping a single "0" for an all-zero run.
func canonicalDigits(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// compareDigits orders two runs of ASCII digits by numeric value without parsing them,
// so runs longer than any integer type still compare correctly.
func compareDigits(a, b string) int {
	a, b = canonicalDigits(a), canonicalDigits(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
