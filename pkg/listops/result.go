package listops

import "strings"

// Op names a transformation.
type Op string

const (
	OpSort    Op = "sort"
	OpFilter  Op = "filter"
	OpExpand  Op = "expand"
	OpCompare Op = "compare"
)

// Ops lists every transformation in menu order.
var Ops = []Op{OpSort, OpCompare, OpFilter, OpExpand}

// Fixed messages shown when an operation finds nothing.
const (
	NoNumbersMessage     = "no numbers found to sort."
	NoMultiUnitMessage   = "no item with more than 1 unit found."
	NoCommonItemsMessage = "no item in common found."
	NoIdentifiersMessage = "no identifiers found to expand."

	CommonItemsHeader = "📋 Items in common:"
)

// Result is the tagged outcome of a transformation.
// Found is false when the operation matched nothing; Text is then empty.
type Result struct {
	Op    Op
	Text  string
	Lines []string
	Found bool
}

// Display resolves the result to the text shown to a user.
// Results that found nothing become the fixed message of their operation.
func (r Result) Display() string {
	if r.Op == OpCompare {
		if !r.Found {
			return NoCommonItemsMessage
		}
		return CommonItemsHeader + "\n" + r.Text
	}
	if r.Found {
		return r.Text
	}
	switch r.Op {
	case OpSort:
		return NoNumbersMessage
	case OpFilter:
		return NoMultiUnitMessage
	case OpExpand:
		return NoIdentifiersMessage
	}
	return ""
}

func linesResult(op Op, lines []string, sep string) Result {
	if len(lines) == 0 {
		return Result{Op: op}
	}
	return Result{Op: op, Text: strings.Join(lines, sep), Lines: lines, Found: true}
}
