// Package dto defines the wire types for the v1 API.
package dto

// SearchRequest is the flat search request body.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// SearchResult is a single ranked photo. It carries the photo's display
// metadata and relevance score; embedding vectors never appear on the wire.
type SearchResult struct {
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Caption  string         `json:"caption,omitempty"`
	Keywords []string       `json:"keywords,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
}

// SearchResponse is the search response body.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
