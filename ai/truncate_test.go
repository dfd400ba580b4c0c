package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncator_ShortTextUnchanged(t *testing.T) {
	tr, err := NewTruncator(100)
	require.NoError(t, err)

	text := "graph neural networks"
	assert.Equal(t, text, tr.Truncate(text))
}

func TestTruncator_LongTextCut(t *testing.T) {
	tr, err := NewTruncator(10)
	require.NoError(t, err)

	text := strings.Repeat("semantic retrieval of academic papers ", 50)
	out := tr.Truncate(text)

	assert.Less(t, len(out), len(text))
	assert.LessOrEqual(t, tr.TokenCount(out), 10)
	assert.True(t, strings.HasPrefix(text, out), "truncation keeps the head")
}

func TestTruncator_Deterministic(t *testing.T) {
	tr, err := NewTruncator(16)
	require.NoError(t, err)

	text := strings.Repeat("attention is all you need ", 20)
	assert.Equal(t, tr.Truncate(text), tr.Truncate(text))
}

func TestTruncator_ZeroBudgetDisables(t *testing.T) {
	tr, err := NewTruncator(0)
	require.NoError(t, err)

	text := strings.Repeat("x ", 10000)
	assert.Equal(t, text, tr.Truncate(text))
}
