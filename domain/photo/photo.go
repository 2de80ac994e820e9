// Package photo provides the photo domain types for the archive.
package photo

import "time"

// Photo represents a single archived photo with its display metadata and,
// when ingestion has run, a semantic embedding vector.
//
// The metadata map carries arbitrary display fields (people tags, album
// names, capture dates from EXIF) that the search core forwards verbatim
// and never interprets.
type Photo struct {
	id        string
	filename  string
	caption   string
	keywords  []string
	imageURL  string
	embedding []float64
	metadata  map[string]any
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Photo with the given identifier and filename.
func New(id, filename string) Photo {
	return Photo{
		id:       id,
		filename: filename,
	}
}

// ID returns the photo identifier.
func (p Photo) ID() string { return p.id }

// Filename returns the original filename.
func (p Photo) Filename() string { return p.filename }

// Caption returns the descriptive caption text.
func (p Photo) Caption() string { return p.caption }

// Keywords returns the keyword list (copy).
func (p Photo) Keywords() []string {
	if p.keywords == nil {
		return nil
	}
	kw := make([]string, len(p.keywords))
	copy(kw, p.keywords)
	return kw
}

// ImageURL returns the display URL for the photo asset.
func (p Photo) ImageURL() string { return p.imageURL }

// Embedding returns the embedding vector (copy), or nil when the photo
// has not been embedded yet.
func (p Photo) Embedding() []float64 {
	if p.embedding == nil {
		return nil
	}
	vec := make([]float64, len(p.embedding))
	copy(vec, p.embedding)
	return vec
}

// HasEmbedding reports whether the photo carries an embedding vector.
func (p Photo) HasEmbedding() bool {
	return len(p.embedding) > 0
}

// Metadata returns the pass-through display metadata (copy).
func (p Photo) Metadata() map[string]any {
	if p.metadata == nil {
		return nil
	}
	m := make(map[string]any, len(p.metadata))
	for k, v := range p.metadata {
		m[k] = v
	}
	return m
}

// CreatedAt returns the creation timestamp.
func (p Photo) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp.
func (p Photo) UpdatedAt() time.Time { return p.updatedAt }

// WithCaption returns a copy with the given caption.
func (p Photo) WithCaption(caption string) Photo {
	p.caption = caption
	return p
}

// WithKeywords returns a copy with the given keywords.
func (p Photo) WithKeywords(keywords []string) Photo {
	if keywords == nil {
		p.keywords = nil
		return p
	}
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	p.keywords = kw
	return p
}

// WithImageURL returns a copy with the given image URL.
func (p Photo) WithImageURL(url string) Photo {
	p.imageURL = url
	return p
}

// WithEmbedding returns a copy with the given embedding vector.
func (p Photo) WithEmbedding(embedding []float64) Photo {
	if embedding == nil {
		p.embedding = nil
		return p
	}
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	p.embedding = vec
	return p
}

// WithoutEmbedding returns a copy with the embedding vector dropped.
// Results crossing the API boundary must never carry raw vectors.
func (p Photo) WithoutEmbedding() Photo {
	p.embedding = nil
	return p
}

// WithMetadata returns a copy with the given pass-through metadata.
func (p Photo) WithMetadata(metadata map[string]any) Photo {
	if metadata == nil {
		p.metadata = nil
		return p
	}
	m := make(map[string]any, len(metadata))
	for k, v := range metadata {
		m[k] = v
	}
	p.metadata = m
	return p
}

// WithTimestamps returns a copy with the given timestamps. Used by the
// persistence layer when hydrating from storage.
func (p Photo) WithTimestamps(createdAt, updatedAt time.Time) Photo {
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return p
}
