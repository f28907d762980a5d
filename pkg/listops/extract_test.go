package listops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntry(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Entry
		wantOK bool
	}{
		{name: "plain id", line: "💎 Item B 67890", want: Entry{ID: "67890", Quantity: 1}, wantOK: true},
		{name: "quantity before id", line: "💎 Item A (4x) 12345", want: Entry{ID: "12345", Quantity: 4}, wantOK: true},
		{name: "quantity after id", line: "12345 Item (2x)", want: Entry{ID: "12345", Quantity: 2}, wantOK: true},
		{name: "zero quantity kept", line: "(0x) 12345", want: Entry{ID: "12345", Quantity: 0}, wantOK: true},
		{name: "leftmost id wins", line: "11111 and 22222", want: Entry{ID: "11111", Quantity: 1}, wantOK: true},
		{name: "six digits is not an id", line: "123456", wantOK: false},
		{name: "digits glued to letters", line: "abc12345", wantOK: false},
		{name: "first annotation wins", line: "12345 (3x) (9x)", want: Entry{ID: "12345", Quantity: 3}, wantOK: true},
		{name: "overflowing quantity defaults", line: "12345 (99999999999999999999999x)", want: Entry{ID: "12345", Quantity: 1}, wantOK: true},
		{name: "empty", line: "", wantOK: false},
		{name: "no digits", line: "just words", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEntry(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIDs(t *testing.T) {
	ids := ExtractIDs("a 11111\nb 22222 33333\nc\nd 11111")
	assert.Equal(t, map[string]struct{}{"11111": {}, "22222": {}}, ids)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\r\nb\rc\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, splitLines("a\vb\fc\x1cd\u0085e\u2028f\u2029"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\r\n\r\n"))
}

func TestCompareDigits(t *testing.T) {
	assert.Equal(t, 0, compareDigits("007", "7"))
	assert.Equal(t, -1, compareDigits("9", "10"))
	assert.Equal(t, 1, compareDigits("100000000000000000000000", "99999999999999999999999"))
	assert.Equal(t, 0, compareDigits("000", "0"))
}

func TestExpandedCount(t *testing.T) {
	assert.Equal(t, 5, ExpandedCount("💎 Item A (4x) 12345\n💎 Item B 67890"))
	assert.Equal(t, 0, ExpandedCount("(0x) 12345\nno id here"))
	assert.Equal(t, 0, ExpandedCount(""))

	huge := "11111 (" + "9223372036854775807" + "x)\n22222 (5x)"
	assert.Equal(t, math.MaxInt, ExpandedCount(huge))
}
