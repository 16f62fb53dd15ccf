// Package analytics derives aggregate views over the record store for the
// dashboard and CLI. Snapshots are recomputed per call from one consistent
// read; nothing is cached or mutated.
package analytics

import (
	"context"

	"shelver/internal/records"
)

// Snapshot summarizes the record population at one instant. ByStatus always
// carries an entry for every known status, and the counts sum to Total.
type Snapshot struct {
	ByStatus map[records.Status]int `json:"by_status"`
	Total    int                    `json:"total"`
}

// Aggregator computes snapshots over a record store.
type Aggregator struct {
	store *records.Store
}

// New constructs an aggregator.
func New(store *records.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Snapshot folds the current records into per-status counts.
func (a *Aggregator) Snapshot(ctx context.Context) (Snapshot, error) {
	counts, err := a.store.CountByStatus(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot := Snapshot{ByStatus: make(map[records.Status]int, len(records.AllStatuses()))}
	for _, status := range records.AllStatuses() {
		count := counts[status]
		snapshot.ByStatus[status] = count
		snapshot.Total += count
	}
	return snapshot, nil
}
