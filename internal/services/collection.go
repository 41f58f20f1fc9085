package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketscan/internal/metrics"
	"marketscan/internal/models"
	"marketscan/internal/storage"
)

// ImageResolver is the artwork lookup used when an entry is added. A failed
// or empty lookup never blocks adding the card.
type ImageResolver interface {
	ResolveImage(ctx context.Context, setName, number string) (string, error)
}

// CollectionManager owns a user's tracked cards: it appends and removes
// entries, recomputes the running total and feeds the history tracker.
// State is passed through the store rather than held in a singleton, so one
// manager serves every user.
type CollectionManager struct {
	store   storage.Store
	images  ImageResolver
	history *HistoryTracker
	now     func() time.Time
}

func NewCollectionManager(store storage.Store, images ImageResolver, history *HistoryTracker) *CollectionManager {
	return &CollectionManager{
		store:   store,
		images:  images,
		history: history,
		now:     time.Now,
	}
}

// Add creates an entry from a resolved card/variant pair and persists it.
// The price is captured once, here. The image lookup runs first and any
// failure degrades to "no image"; the entry is persisted either way.
// Nothing prevents the same variant being tracked twice.
func (m *CollectionManager) Add(ctx context.Context, email string, card *models.Card, variant *models.Variant) (*models.CollectionEntry, error) {
	entry := models.CollectionEntry{
		CardID:    card.ID,
		VariantID: variant.ID,
		Name:      card.Name,
		SetName:   card.SetName,
		Number:    card.Number,
		Game:      card.Game,
		Price:     variant.Price,
		Condition: variant.Condition,
		Printing:  variant.Printing,
	}

	if m.images != nil {
		imageURL, err := m.images.ResolveImage(ctx, card.SetName, card.Number)
		if err != nil {
			log.Printf("image lookup failed for %s #%s: %v", card.SetName, card.Number, err)
		} else {
			entry.ImageURL = imageURL
		}
	}

	entries, err := m.store.Collection(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	entries = append(entries, entry)
	if err := m.store.SaveCollection(ctx, email, entries); err != nil {
		return nil, fmt.Errorf("failed to persist collection: %w", err)
	}

	metrics.CollectionOpsTotal.WithLabelValues("add").Inc()
	m.recordTotal(ctx, email, entries)
	return &entry, nil
}

// Remove deletes every entry with the given variant id. Removing the last
// entry is a normal state, not an error; the empty collection persists.
func (m *CollectionManager) Remove(ctx context.Context, email, variantID string) error {
	entries, err := m.store.Collection(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.VariantID != variantID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("variant %q not in collection: %w", variantID, ErrNotFound)
	}

	if err := m.store.SaveCollection(ctx, email, kept); err != nil {
		return fmt.Errorf("failed to persist collection: %w", err)
	}

	metrics.CollectionOpsTotal.WithLabelValues("remove").Inc()
	m.recordTotal(ctx, email, kept)
	return nil
}

// Restore loads the persisted entries in persisted order for session start.
func (m *CollectionManager) Restore(ctx context.Context, email string) ([]models.CollectionEntry, error) {
	entries, err := m.store.Collection(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return entries, nil
}

// Total sums the frozen prices of the given entries. Entries without a
// price count as zero.
func Total(entries []models.CollectionEntry) float64 {
	var total float64
	for _, e := range entries {
		if e.Price != nil {
			total += *e.Price
		}
	}
	return total
}

// recordTotal pushes today's total into the history series. History is
// derived data; a failed write is logged and does not fail the operation
// that triggered it.
func (m *CollectionManager) recordTotal(ctx context.Context, email string, entries []models.CollectionEntry) {
	total := Total(entries)
	metrics.CollectionValueUSD.Set(total)

	if m.history == nil {
		return
	}
	if err := m.history.Record(ctx, email, total, m.now()); err != nil {
		log.Printf("failed to record value history for %s: %v", email, err)
	}
}
