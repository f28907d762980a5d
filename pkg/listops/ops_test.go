package listops

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "example", text: "7 apples\n2 pears\n10 grapes", want: "2 7 10"},
		{name: "empty", text: "", want: NoNumbersMessage},
		{name: "no digits", text: "apples\npears", want: NoNumbersMessage},
		{name: "duplicates kept", text: "3\n1\n3", want: "1 3 3"},
		{name: "first run only", text: "💎 Item 42 (3x)\n💎 5 more", want: "5 42"},
		{name: "blank lines skipped", text: "\n   \n8\n\t\n1\n", want: "1 8"},
		{name: "leading zeros dropped", text: "007\n10", want: "7 10"},
		{name: "longer than int64", text: "99999999999999999999999\n1", want: "1 99999999999999999999999"},
		{name: "crlf", text: "3 a\r\n1 b\r\n", want: "1 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortNumbers(tt.text))
		})
	}
}

func TestSort_Idempotent(t *testing.T) {
	first := Sort("12\n4\n9\n4\n100")
	require.True(t, first.Found)

	again := Sort(strings.Join(first.Lines, "\n"))
	assert.Equal(t, first.Text, again.Text)
}

func TestFilterMultipleUnits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "example", text: "A (1x) 11111\nB (3x) 22222\nC 33333", want: "B (3x) 22222"},
		{name: "order preserved", text: "x (5x)\ny (1x)\nz (2x)", want: "x (5x)\nz (2x)"},
		{name: "none retained", text: "A (1x)\nB", want: NoMultiUnitMessage},
		{name: "zero excluded", text: "A (0x) 11111", want: NoMultiUnitMessage},
		{name: "empty", text: "", want: NoMultiUnitMessage},
		{name: "line kept verbatim", text: "  💎 B (2x) 22222  ", want: "  💎 B (2x) 22222  "},
		{name: "huge quantity retained", text: "A (99999999999999999999x)", want: "A (99999999999999999999x)"},
		{name: "padded one is one", text: "A (001x)", want: NoMultiUnitMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterMultipleUnits(tt.text))
		})
	}
}

func TestFilter_Subsequence(t *testing.T) {
	input := []string{"a (2x) 11111", "b 22222", "c (1x) 33333", "d (7x) 44444", "e (3x)"}
	res := Filter(strings.Join(input, "\n"))
	require.True(t, res.Found)

	i := 0
	for _, line := range res.Lines {
		for i < len(input) && input[i] != line {
			i++
		}
		require.Less(t, i, len(input), "line %q is not in input order", line)
		assert.Greater(t, quantityOf(line), 1)
		i++
	}
	assert.Equal(t, []string{"a (2x) 11111", "d (7x) 44444", "e (3x)"}, res.Lines)
}

func TestExpandByQuantity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "example", text: "💎 Item A (4x) 12345\n💎 Item B 67890", want: "12345 12345 12345 12345 67890"},
		{name: "empty", text: "", want: ""},
		{name: "no ids", text: "apples (3x)\npears", want: ""},
		{name: "zero quantity", text: "(0x) 11111\n22222", want: "22222"},
		{name: "line order", text: "22222 (2x)\n11111", want: "22222 22222 11111"},
		{name: "vertical tab ends a line", text: "apples (3x)\v11111", want: "11111"},
		{name: "surrounding blank lines", text: "\n\n  11111 (2x)\n\n", want: "11111 11111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandByQuantity(tt.text))
		})
	}
}

func TestExpand_TokensPerLine(t *testing.T) {
	res := Expand("a (3x) 11111\nb (0x) 22222\nc 33333")
	want := []string{"11111", "11111", "11111", "33333"}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Errorf("Expand() tokens mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(res.Lines), ExpandedCount("a (3x) 11111\nb (0x) 22222\nc 33333"))
}

func TestCompareLists(t *testing.T) {
	list1 := "💎 Dragon 33333\n💎 Apple 11111\n🍬 Candy 22222"
	list2 := "22222 candy\nsomething 44444\n11111"

	got := CompareLists(list1, list2)
	want := []string{"💎 Apple 11111", "🍬 Candy 22222"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompareLists() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareLists_NoMatch(t *testing.T) {
	assert.Nil(t, CompareLists("11111", "22222"))
	assert.Nil(t, CompareLists("", ""))

	res := Compare("11111", "22222")
	assert.False(t, res.Found)
	assert.Equal(t, NoCommonItemsMessage, res.Display())
}

func TestCompareLists_LinesAlwaysFromFirst(t *testing.T) {
	a := "💎 Apple (2x) 11111\n💎 Pear 22222"
	b := "apple plain 11111\npear plain 22222"

	ab := CompareLists(a, b)
	ba := CompareLists(b, a)

	assert.Equal(t, []string{"💎 Apple (2x) 11111", "💎 Pear 22222"}, ab)
	assert.Equal(t, []string{"apple plain 11111", "pear plain 22222"}, ba)
	assert.Len(t, ba, len(ab), "identifier intersection is symmetric")
}

func TestCompareLists_LastLineWins(t *testing.T) {
	got := CompareLists("old 11111\n  new 11111  ", "11111")
	assert.Equal(t, []string{"new 11111"}, got)
}

func TestCompareLists_SelfRoundTrip(t *testing.T) {
	list := "c 33333\na 11111\n\nb 22222"
	assert.Equal(t, []string{"a 11111", "b 22222", "c 33333"}, CompareLists(list, list))
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "golden dragon", NameOnly("1. 💎 Golden Dragon (4x)"))
	assert.Equal(t, "plain", NameOnly("  Plain  "))
	assert.Equal(t, "Golden  Dragon", CleanDisplayLine("💎 Golden (rare) Dragon (4x) 🍬"))
	assert.Equal(t, "Plain text", CleanDisplayLine("  Plain text "))
}

func TestResultDisplay(t *testing.T) {
	assert.Equal(t, NoIdentifiersMessage, Expand("").Display())
	assert.Equal(t, "", Expand("").Text)
	assert.Equal(t, CommonItemsHeader+"\na 11111", Compare("a 11111", "11111").Display())
}

func TestApply(t *testing.T) {
	res, err := Apply(OpSort, "3\n1")
	require.NoError(t, err)
	assert.Equal(t, "1 3", res.Text)

	res, err = Apply(OpCompare, "a 11111", "b 11111")
	require.NoError(t, err)
	assert.Equal(t, []string{"a 11111"}, res.Lines)

	_, err = Apply(OpCompare, "only one")
	assert.ErrorIs(t, err, ErrArity)

	_, err = Apply(Op("shuffle"), "x")
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestInputNotMutated(t *testing.T) {
	input := "💎 B (3x) 22222\n💎 A 11111"
	orig := strings.Clone(input)
	_ = Sort(input)
	_ = Filter(input)
	_ = Expand(input)
	_ = Compare(input, input)
	assert.Equal(t, orig, input)
}
