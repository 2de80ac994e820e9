package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudget_RejectsNonPositive(t *testing.T) {
	_, err := NewBudget(0)
	require.Error(t, err)

	_, err = NewBudget(-10)
	require.Error(t, err)
}

func TestBudget_Truncate(t *testing.T) {
	b, err := NewBudget(5)
	require.NoError(t, err)

	assert.Equal(t, "abc", b.Truncate("abc"))
	assert.Equal(t, "abcde", b.Truncate("abcdefgh"))
	// Rune-aware: multibyte characters count as one.
	assert.Equal(t, "ééééé", b.Truncate("ééééééé"))
}

func TestBudget_Batches(t *testing.T) {
	b, err := NewBudget(10)
	require.NoError(t, err)
	b = b.WithMaxBatchSize(10)

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, b.Batches(nil))
		assert.Nil(t, b.Batches([]string{}))
	})

	t.Run("all fit in one batch", func(t *testing.T) {
		batches := b.Batches([]string{"aa", "bb", "cc"})
		require.Len(t, batches, 1)
		assert.Equal(t, []string{"aa", "bb", "cc"}, batches[0])
	})

	t.Run("splits on char budget", func(t *testing.T) {
		batches := b.Batches([]string{"aaaaaa", "bbbbbb", "cc"})
		require.Len(t, batches, 2)
		assert.Equal(t, []string{"aaaaaa"}, batches[0])
		assert.Equal(t, []string{"bbbbbb", "cc"}, batches[1])
	})

	t.Run("splits on batch size", func(t *testing.T) {
		small := b.WithMaxBatchSize(2)
		batches := small.Batches([]string{"a", "b", "c", "d", "e"})
		require.Len(t, batches, 3)
		assert.Equal(t, []string{"a", "b"}, batches[0])
		assert.Equal(t, []string{"c", "d"}, batches[1])
		assert.Equal(t, []string{"e"}, batches[2])
	})

	t.Run("oversized text gets own batch", func(t *testing.T) {
		long := strings.Repeat("x", 50)
		batches := b.Batches([]string{long, "aa"})
		require.Len(t, batches, 2)
		assert.Equal(t, []string{long}, batches[0])
		assert.Equal(t, []string{"aa"}, batches[1])
	})

	t.Run("preserves order and count", func(t *testing.T) {
		texts := []string{"one", "two", "three", "four", "five"}
		total := 0
		for _, batch := range b.WithMaxBatchSize(2).Batches(texts) {
			total += len(batch)
		}
		assert.Equal(t, len(texts), total)
	})
}
