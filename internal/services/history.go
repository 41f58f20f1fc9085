package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"marketscan/internal/models"
	"marketscan/internal/storage"
)

// HistoryTracker maintains the rolling daily series of a user's total
// collection value. Storage holds at most the trailing seven days; the
// chart-facing series is a gap-filled projection over those sparse points.
type HistoryTracker struct {
	store storage.Store
}

func NewHistoryTracker(store storage.Store) *HistoryTracker {
	return &HistoryTracker{store: store}
}

// Record upserts the point for today's calendar date and prunes everything
// older than the retention window. A point exactly seven days old is kept.
func (t *HistoryTracker) Record(ctx context.Context, email string, total float64, today time.Time) error {
	points, err := t.store.History(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	date := today.Format(models.HistoryDateLayout)
	updated := false
	for i := range points {
		if points[i].Date == date {
			points[i].Total = total
			updated = true
			break
		}
	}
	if !updated {
		points = append(points, models.HistoryPoint{Date: date, Total: total})
	}

	// ISO dates compare correctly as strings.
	cutoff := today.AddDate(0, 0, -models.HistoryRetentionDays).Format(models.HistoryDateLayout)
	kept := points[:0]
	for _, p := range points {
		if p.Date >= cutoff {
			kept = append(kept, p)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Date < kept[j].Date })

	if err := t.store.SaveHistory(ctx, email, kept); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// Series returns exactly n chronological points spanning today back to n-1
// days ago. Days without a recorded point report a zero total, so the
// result is always chart-ready regardless of how sparse storage is.
func (t *HistoryTracker) Series(ctx context.Context, email string, n int, today time.Time) ([]models.HistoryPoint, error) {
	if n <= 0 {
		n = models.HistoryRetentionDays
	}

	points, err := t.store.History(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	byDate := make(map[string]float64, len(points))
	for _, p := range points {
		byDate[p.Date] = p.Total
	}

	series := make([]models.HistoryPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(models.HistoryDateLayout)
		series = append(series, models.HistoryPoint{Date: date, Total: byDate[date]})
	}
	return series, nil
}
