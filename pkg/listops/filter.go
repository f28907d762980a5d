package listops

import "strings"

// Filter keeps the lines whose "(Nx)" annotation has N greater than one, in input order.
// Lines are returned verbatim.
func Filter(text string) Result {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		digits, ok := quantityDigits(line)
		if !ok {
			continue
		}
		if compareDigits(digits, "1") > 0 {
			kept = append(kept, line)
		}
	}
	return linesResult(OpFilter, kept, "\n")
}

// FilterMultipleUnits is the string form of Filter.
func FilterMultipleUnits(text string) string {
	return Filter(text).Display()
}
