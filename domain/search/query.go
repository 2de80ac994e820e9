package search

import "strings"

// DefaultLimit is the number of results returned when the caller does not
// specify one.
const DefaultLimit = 20

// Query represents a validated free-text search query.
type Query struct {
	text  string
	limit int
}

// NewQuery creates a Query, trimming surrounding whitespace from the text.
// A non-positive limit falls back to DefaultLimit; callers that want to
// reject bad limits check before construction.
func NewQuery(text string, limit int) Query {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Query{
		text:  strings.TrimSpace(text),
		limit: limit,
	}
}

// Text returns the trimmed query text.
func (q Query) Text() string { return q.text }

// Limit returns the maximum number of results to return.
func (q Query) Limit() int { return q.limit }

// IsEmpty reports whether the query has no text after trimming.
func (q Query) IsEmpty() bool { return q.text == "" }
