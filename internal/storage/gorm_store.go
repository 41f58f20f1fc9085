package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/internal/models"
)

// GormStore keeps the per-user blobs in a storage_records table. It is the
// server-side replacement for the browser's local storage and keeps the same
// key layout, so swapping implementations never touches workflow logic.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Collection(ctx context.Context, email string) ([]models.CollectionEntry, error) {
	entries := []models.CollectionEntry{}
	if err := s.load(ctx, collectionKey(email), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) SaveCollection(ctx context.Context, email string, entries []models.CollectionEntry) error {
	return s.save(ctx, collectionKey(email), entries)
}

func (s *GormStore) History(ctx context.Context, email string) ([]models.HistoryPoint, error) {
	points := []models.HistoryPoint{}
	if err := s.load(ctx, historyKey(email), &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *GormStore) SaveHistory(ctx context.Context, email string, points []models.HistoryPoint) error {
	return s.save(ctx, historyKey(email), points)
}

// load decodes the blob stored under key into out. A missing key leaves out
// untouched, so callers start from an empty list.
func (s *GormStore) load(ctx context.Context, key string, out any) error {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read record %q: %w", key, err)
	}
	if err := json.Unmarshal(record.Value, out); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}

	record := Record{Key: key, Value: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}
