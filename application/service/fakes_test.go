package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pickworth/photofind/domain/photo"
)

// fakeEmbedder returns deterministic vectors and can be primed to fail.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	fail    error
	calls   int
	batches [][]string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float64{}}
}

func (f *fakeEmbedder) prime(text string, vec []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[text] = vec
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	batch := make([]string, len(texts))
	copy(batch, texts)
	f.batches = append(f.batches, batch)

	if f.fail != nil {
		return nil, f.fail
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		if vec, ok := f.vectors[text]; ok {
			out[i] = vec
			continue
		}
		// Deterministic fallback vector derived from text length.
		out[i] = []float64{float64(len(text)), 1, 0}
	}
	return out, nil
}

// memStore is an in-memory photo.Store.
type memStore struct {
	mu     sync.Mutex
	photos map[string]photo.Photo
	fail   error
}

func newMemStore() *memStore {
	return &memStore{photos: map[string]photo.Photo{}}
}

func (s *memStore) Save(_ context.Context, p photo.Photo) (photo.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return photo.Photo{}, s.fail
	}
	s.photos[p.ID()] = p
	return p, nil
}

func (s *memStore) SaveAll(_ context.Context, photos []photo.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	for _, p := range photos {
		s.photos[p.ID()] = p
	}
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (photo.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return photo.Photo{}, s.fail
	}
	p, ok := s.photos[id]
	if !ok {
		return photo.Photo{}, fmt.Errorf("photo %s: %w", id, photo.ErrNotFound)
	}
	return p, nil
}

func (s *memStore) List(_ context.Context, opts photo.ListOptions) ([]photo.Photo, error) {
	all, err := s.sorted()
	if err != nil {
		return nil, err
	}
	if opts.Offset() > 0 {
		if opts.Offset() >= len(all) {
			return []photo.Photo{}, nil
		}
		all = all[opts.Offset():]
	}
	if opts.Limit() > 0 && opts.Limit() < len(all) {
		all = all[:opts.Limit()]
	}
	return all, nil
}

func (s *memStore) All(_ context.Context) ([]photo.Photo, error) {
	return s.sorted()
}

func (s *memStore) WithoutEmbedding(_ context.Context) ([]photo.Photo, error) {
	all, err := s.sorted()
	if err != nil {
		return nil, err
	}
	pending := make([]photo.Photo, 0, len(all))
	for _, p := range all {
		if !p.HasEmbedding() {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, s.fail
	}
	return int64(len(s.photos)), nil
}

func (s *memStore) sorted() ([]photo.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]photo.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

var errProviderDown = errors.New("provider unreachable")
