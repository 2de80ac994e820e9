package search

import (
	"fmt"
	"unicode/utf8"
)

// Budget constrains embedding batches to stay within model input limits.
// It holds a character budget and a maximum batch size: each batch's total
// (truncated) text must not exceed maxChars, each batch contains at most
// maxBatchSize texts, and individual texts are truncated to maxChars.
type Budget struct {
	maxChars     int
	maxBatchSize int
}

// NewBudget creates a Budget with the given character limit.
// maxChars must be positive.
func NewBudget(maxChars int) (Budget, error) {
	if maxChars <= 0 {
		return Budget{}, fmt.Errorf("NewBudget: maxChars must be positive, got %d", maxChars)
	}
	return Budget{maxChars: maxChars, maxBatchSize: 1}, nil
}

// DefaultBudget returns a conservative budget of 16 000 characters
// (~5 300 tokens at ~3 chars/token), safe for 8 192-token embedding models.
func DefaultBudget() Budget {
	b, _ := NewBudget(16000)
	return b
}

// WithMaxBatchSize returns a new Budget with the given maximum number of
// texts per batch. Values <= 0 are clamped to 1.
func (b Budget) WithMaxBatchSize(n int) Budget {
	if n <= 0 {
		n = 1
	}
	b.maxBatchSize = n
	return b
}

// Truncate returns text capped to the character (rune) limit.
func (b Budget) Truncate(text string) string {
	if utf8.RuneCountInString(text) <= b.maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:b.maxChars])
}

// Batches partitions texts into groups whose total truncated character
// count stays within the budget and whose size does not exceed the maximum
// batch size. A single text that still exceeds the character budget after
// truncation is placed alone in its own batch.
func (b Budget) Batches(texts []string) [][]string {
	if len(texts) == 0 {
		return nil
	}

	var batches [][]string
	i := 0

	for i < len(texts) {
		start := i
		batchChars := 0

		for i < len(texts) {
			if i-start >= b.maxBatchSize && i > start {
				break
			}

			textLen := min(utf8.RuneCountInString(texts[i]), b.maxChars)

			if batchChars+textLen > b.maxChars && i > start {
				break
			}

			batchChars += textLen
			i++
		}

		batch := make([]string, i-start)
		copy(batch, texts[start:i])
		batches = append(batches, batch)
	}

	return batches
}
