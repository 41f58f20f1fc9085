package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"marketscan/internal/models"
)

// MemoryStore is an in-process Store used by tests. Values round-trip
// through JSON so it serializes exactly like the durable implementations.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Collection(ctx context.Context, email string) ([]models.CollectionEntry, error) {
	entries := []models.CollectionEntry{}
	if err := s.load(collectionKey(email), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MemoryStore) SaveCollection(ctx context.Context, email string, entries []models.CollectionEntry) error {
	return s.save(collectionKey(email), entries)
}

func (s *MemoryStore) History(ctx context.Context, email string) ([]models.HistoryPoint, error) {
	points := []models.HistoryPoint{}
	if err := s.load(historyKey(email), &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *MemoryStore) SaveHistory(ctx context.Context, email string, points []models.HistoryPoint) error {
	return s.save(historyKey(email), points)
}

func (s *MemoryStore) load(key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return nil
}

func (s *MemoryStore) save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = data
	return nil
}
