package bot

import (
	"testing"

	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/listops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionIn(m domain.Mode) domain.Session {
	s := domain.NewSession("chat-1")
	s.SwitchMode(m)
	return *s
}

func TestDispatch_NoMode(t *testing.T) {
	next, out := Dispatch(*domain.NewSession("chat-1"), "12345", Limits{})
	assert.Equal(t, domain.ModeNone, next.Mode)
	assert.Nil(t, out.Result)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, msgNoMode, out.Replies[0].Text)
}

func TestDispatch_SingleTextModes(t *testing.T) {
	tests := []struct {
		mode domain.Mode
		text string
		want string
	}{
		{domain.ModeSort, "7 apples\n2 pears\n10 grapes", "2 7 10"},
		{domain.ModeSort, "", listops.NoNumbersMessage},
		{domain.ModeFilter, "A (1x) 11111\nB (3x) 22222\nC 33333", "B (3x) 22222"},
		{domain.ModeFilter, "A", listops.NoMultiUnitMessage},
		{domain.ModeExpand, "💎 Item A (4x) 12345\n💎 Item B 67890", "12345 12345 12345 12345 67890"},
		{domain.ModeExpand, "no ids", listops.NoIdentifiersMessage},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.want, func(t *testing.T) {
			next, out := Dispatch(sessionIn(tt.mode), tt.text, Limits{})
			assert.Equal(t, tt.mode, next.Mode)
			require.NotNil(t, out.Result)
			require.Len(t, out.Replies, 2)
			assert.Equal(t, tt.want, out.Replies[0].Text)
			assert.Equal(t, BackToMenu(), out.Replies[1].Keyboard)
		})
	}
}

func TestDispatch_CompareAccumulates(t *testing.T) {
	s := sessionIn(domain.ModeCompare)

	s, out := Dispatch(s, "💎 Apple 11111\n💎 Pear 22222", Limits{})
	assert.Nil(t, out.Result)
	assert.Equal(t, msgFirstList, out.Replies[0].Text)
	assert.Len(t, s.Pending, 1)

	s, out = Dispatch(s, "11111 apple", Limits{})
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Found)
	assert.Equal(t, listops.CommonItemsHeader+"\n💎 Apple 11111", out.Replies[0].Text)
	assert.Empty(t, s.Pending, "pending lists reset after a comparison")
	assert.Equal(t, domain.ModeCompare, s.Mode)

	s, _ = Dispatch(s, "33333", Limits{})
	_, out = Dispatch(s, "44444", Limits{})
	assert.Equal(t, listops.NoCommonItemsMessage, out.Replies[0].Text)
}

func TestDispatch_DoesNotMutateInput(t *testing.T) {
	s := sessionIn(domain.ModeCompare)
	s.Pending = make([]string, 1, 4)
	s.Pending[0] = "first 11111"

	next, _ := Dispatch(s, "second 11111", Limits{})
	assert.Len(t, s.Pending, 1)
	assert.Empty(t, next.Pending)
}

func TestDispatch_ExpandLimit(t *testing.T) {
	s := sessionIn(domain.ModeExpand)

	_, out := Dispatch(s, "11111 (3x)\n22222 (3x)", Limits{MaxExpandedTokens: 5})
	assert.Nil(t, out.Result)
	assert.Contains(t, out.Replies[0].Text, "expands to 6 IDs")

	_, out = Dispatch(s, "11111 (3x)\n22222 (2x)", Limits{MaxExpandedTokens: 5})
	require.NotNil(t, out.Result)
	assert.Len(t, out.Result.Lines, 5)
}

func TestOpFor(t *testing.T) {
	for _, m := range domain.Modes {
		op, ok := OpFor(m)
		assert.True(t, ok, m)
		assert.Equal(t, string(m), string(op))
	}
	_, ok := OpFor(domain.ModeNone)
	assert.False(t, ok)
}
