package services

import (
	"context"
	"log"
	"time"
)

// SnapshotWorker re-records every known user's collection total once per
// day, so the 7-day series advances even on days with no add or remove
// activity.
type SnapshotWorker struct {
	manager    *CollectionManager
	history    *HistoryTracker
	listEmails func(ctx context.Context) ([]string, error)

	snapshotHour  int // Hour of day after which a snapshot may be taken (0-23)
	checkInterval time.Duration
	lastSnapshot  string // YYYY-MM-DD of the last completed run
}

func NewSnapshotWorker(manager *CollectionManager, history *HistoryTracker, listEmails func(ctx context.Context) ([]string, error)) *SnapshotWorker {
	return &SnapshotWorker{
		manager:       manager,
		history:       history,
		listEmails:    listEmails,
		snapshotHour:  23, // Default: 11 PM
		checkInterval: 15 * time.Minute,
	}
}

// Start runs the worker until the context is canceled.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Println("Snapshot worker started: will record daily collection values")

	w.checkAndSnapshot(ctx)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot worker stopping...")
			return
		case <-ticker.C:
			w.checkAndSnapshot(ctx)
		}
	}
}

func (w *SnapshotWorker) checkAndSnapshot(ctx context.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")

	if w.lastSnapshot == today {
		return
	}
	if now.Hour() < w.snapshotHour {
		return
	}

	if err := w.snapshotAll(ctx, now); err != nil {
		log.Printf("Snapshot worker: failed to record totals: %v", err)
		return
	}
	w.lastSnapshot = today
}

// snapshotAll records the current total for every account.
func (w *SnapshotWorker) snapshotAll(ctx context.Context, now time.Time) error {
	emails, err := w.listEmails(ctx)
	if err != nil {
		return err
	}

	for _, email := range emails {
		entries, err := w.manager.Restore(ctx, email)
		if err != nil {
			log.Printf("Snapshot worker: failed to load collection for %s: %v", email, err)
			continue
		}
		if err := w.history.Record(ctx, email, Total(entries), now); err != nil {
			log.Printf("Snapshot worker: failed to record history for %s: %v", email, err)
		}
	}

	log.Printf("Snapshot worker: recorded totals for %d users", len(emails))
	return nil
}
