package dto

import "time"

// Photo is a single photo record in browse responses.
type Photo struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	Caption      string         `json:"caption,omitempty"`
	Keywords     []string       `json:"keywords,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	HasEmbedding bool           `json:"has_embedding"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// PhotoListResponse is the browse listing response body.
type PhotoListResponse struct {
	Photos []Photo `json:"photos"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// PhotoUpdateRequest is the review edit body. Absent fields are left
// unchanged; present fields replace the stored value.
type PhotoUpdateRequest struct {
	Caption  *string         `json:"caption,omitempty"`
	Keywords *[]string       `json:"keywords,omitempty"`
	Metadata *map[string]any `json:"metadata,omitempty"`
}
