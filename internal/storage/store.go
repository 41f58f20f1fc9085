// Package storage persists per-user collection and value-history lists as
// JSON blobs under string keys, mirroring the browser's local
// storage layout. Writes are whole-list replacements: the last
// writer for a key wins.
package storage

import (
	"context"
	"fmt"
	"time"

	"marketscan/internal/models"
)

type Store interface {
	Collection(ctx context.Context, email string) ([]models.CollectionEntry, error)
	SaveCollection(ctx context.Context, email string, entries []models.CollectionEntry) error
	History(ctx context.Context, email string) ([]models.HistoryPoint, error)
	SaveHistory(ctx context.Context, email string, points []models.HistoryPoint) error
}

// Record is one persisted key/value pair. Keys take the forms
// "userCards_<email>" and "valueHistory_<email>".
type Record struct {
	Key       string    `gorm:"primaryKey"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "storage_records" }

func collectionKey(email string) string {
	return fmt.Sprintf("userCards_%s", email)
}

func historyKey(email string) string {
	return fmt.Sprintf("valueHistory_%s", email)
}
