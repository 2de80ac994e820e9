// Package persistence provides GORM-backed storage for the photo archive.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/internal/database"
)

// PhotoModel is the GORM model for the photos table. Embeddings, keywords
// and metadata are stored as JSON columns, which works identically on
// SQLite and PostgreSQL.
type PhotoModel struct {
	ID        string       `gorm:"column:id;primaryKey"`
	Filename  string       `gorm:"column:filename;not null"`
	Caption   string       `gorm:"column:caption"`
	Keywords  StringSlice  `gorm:"column:keywords;type:json"`
	ImageURL  string       `gorm:"column:image_url"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
	Metadata  JSONMap      `gorm:"column:metadata;type:json"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM.
func (PhotoModel) TableName() string { return "photos" }

// photoMapper maps between photo.Photo and PhotoModel.
type photoMapper struct{}

func (photoMapper) ToDomain(entity PhotoModel) photo.Photo {
	return photo.New(entity.ID, entity.Filename).
		WithCaption(entity.Caption).
		WithKeywords([]string(entity.Keywords)).
		WithImageURL(entity.ImageURL).
		WithEmbedding([]float64(entity.Embedding)).
		WithMetadata(map[string]any(entity.Metadata)).
		WithTimestamps(entity.CreatedAt, entity.UpdatedAt)
}

func (photoMapper) ToModel(p photo.Photo) PhotoModel {
	return PhotoModel{
		ID:        p.ID(),
		Filename:  p.Filename(),
		Caption:   p.Caption(),
		Keywords:  StringSlice(p.Keywords()),
		ImageURL:  p.ImageURL(),
		Embedding: Float64Slice(p.Embedding()),
		Metadata:  JSONMap(p.Metadata()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// PhotoStore implements photo.Store backed by GORM.
type PhotoStore struct {
	db     database.Database
	mapper photoMapper
}

// NewPhotoStore creates a PhotoStore and migrates the photos table.
func NewPhotoStore(ctx context.Context, db database.Database) (*PhotoStore, error) {
	if err := db.Session(ctx).AutoMigrate(&PhotoModel{}); err != nil {
		return nil, fmt.Errorf("migrate photos table: %w", err)
	}
	return &PhotoStore{db: db}, nil
}

// Save inserts or replaces a photo record.
func (s *PhotoStore) Save(ctx context.Context, p photo.Photo) (photo.Photo, error) {
	model := s.mapper.ToModel(p)
	now := time.Now().UTC()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		return photo.Photo{}, fmt.Errorf("save photo %s: %w", p.ID(), err)
	}

	return s.mapper.ToDomain(model), nil
}

// SaveAll inserts or replaces a batch of photo records in one transaction.
func (s *PhotoStore) SaveAll(ctx context.Context, photos []photo.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]PhotoModel, len(photos))
	for i, p := range photos {
		models[i] = s.mapper.ToModel(p)
		if models[i].CreatedAt.IsZero() {
			models[i].CreatedAt = now
		}
		models[i].UpdatedAt = now
	}

	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, 100).Error
	if err != nil {
		return fmt.Errorf("save %d photos: %w", len(photos), err)
	}
	return nil
}

// Get retrieves a single photo by ID.
func (s *PhotoStore) Get(ctx context.Context, id string) (photo.Photo, error) {
	var model PhotoModel
	err := s.db.Session(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return photo.Photo{}, fmt.Errorf("photo %s: %w", id, photo.ErrNotFound)
	}
	if err != nil {
		return photo.Photo{}, fmt.Errorf("get photo %s: %w", id, err)
	}
	return s.mapper.ToDomain(model), nil
}

// List retrieves photos ordered by ID with pagination.
func (s *PhotoStore) List(ctx context.Context, opts photo.ListOptions) ([]photo.Photo, error) {
	tx := s.db.Session(ctx).Model(&PhotoModel{}).Order("id ASC")
	if opts.Limit() > 0 {
		tx = tx.Limit(opts.Limit())
	}
	if opts.Offset() > 0 {
		tx = tx.Offset(opts.Offset())
	}

	var models []PhotoModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return s.toDomainAll(models), nil
}

// All retrieves the full corpus including embedding vectors, ordered by ID.
func (s *PhotoStore) All(ctx context.Context) ([]photo.Photo, error) {
	var models []PhotoModel
	err := s.db.Session(ctx).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load photo corpus: %w", err)
	}
	return s.toDomainAll(models), nil
}

// WithoutEmbedding retrieves photos that have no embedding vector yet.
func (s *PhotoStore) WithoutEmbedding(ctx context.Context) ([]photo.Photo, error) {
	var models []PhotoModel
	err := s.db.Session(ctx).
		Where("embedding IS NULL").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list unembedded photos: %w", err)
	}
	return s.toDomainAll(models), nil
}

// Count returns the total number of photos.
func (s *PhotoStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.Session(ctx).Model(&PhotoModel{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

func (s *PhotoStore) toDomainAll(models []PhotoModel) []photo.Photo {
	photos := make([]photo.Photo, len(models))
	for i, m := range models {
		photos[i] = s.mapper.ToDomain(m)
	}
	return photos
}

var _ photo.Store = (*PhotoStore)(nil)
