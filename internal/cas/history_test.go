package cas

import (
	"testing"

	"github.com/odra-lang/odra/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordAndBack(t *testing.T) {
	h := NewHistory(16)

	_, err := h.Record("main", nil)
	require.NoError(t, err)
	_, err = h.Record("main", []*value.Ref{value.Num(3)})
	require.NoError(t, err)
	_, err = h.Record("main", []*value.Ref{value.Num(3), value.Str("x")})
	require.NoError(t, err)

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Seq, entries[1].Seq, entries[2].Seq})
	assert.Equal(t, 2, entries[2].Depth)

	e, stack, err := h.Back()
	require.NoError(t, err)
	assert.Equal(t, 2, e.Seq)
	assert.Equal(t, "[3]", value.FormatStack(stack))

	_, stack, err = h.Back()
	require.NoError(t, err)
	assert.Empty(t, stack)

	_, _, err = h.Back()
	assert.ErrorIs(t, err, ErrNoEarlierState)
}

func TestHistorySkipsRepeats(t *testing.T) {
	h := NewHistory(0)
	first, err := h.Record("main", []*value.Ref{value.Num(1)})
	require.NoError(t, err)
	again, err := h.Record("main", []*value.Ref{value.Num(1)})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, h.Entries(), 1)

	// same content on another fibre is a different snapshot
	_, err = h.Record("other", []*value.Ref{value.Num(1)})
	require.NoError(t, err)
	assert.Len(t, h.Entries(), 2)
}

func TestHistoryLoadSharesStorage(t *testing.T) {
	h := NewHistory(4)
	big := value.ListOf(value.Num(1), value.Num(2), value.Num(3))
	_, err := h.Record("main", []*value.Ref{big})
	require.NoError(t, err)
	distinct, _ := h.Stats()

	e, err := h.Record("main", []*value.Ref{big, value.Num(9)})
	require.NoError(t, err)
	after, _ := h.Stats()
	// only the new scalar and the new StackRef
	assert.Equal(t, distinct+2, after)

	stack, err := h.Load(e)
	require.NoError(t, err)
	assert.Equal(t, "[[1, 2, 3] 9]", value.FormatStack(stack))
}
