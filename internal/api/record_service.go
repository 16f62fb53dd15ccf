package api

import (
	"context"
	"errors"
	"strings"

	"shelver/internal/records"
)

// RecordService provides read access to records for the HTTP and IPC surfaces.
type RecordService struct {
	store *records.Store
}

// NewRecordService constructs a service over the given store.
func NewRecordService(store *records.Store) *RecordService {
	return &RecordService{store: store}
}

// List returns record views in insertion order, optionally filtered by status.
func (s *RecordService) List(ctx context.Context, statuses ...records.Status) ([]RecordView, error) {
	list, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromRecords(list), nil
}

// Describe returns the view for one record, or nil when it does not exist.
// A unique ID prefix resolves to its record, so CLI users can pass the
// shortened IDs the list view shows.
func (s *RecordService) Describe(ctx context.Context, id string) (*RecordView, error) {
	record, err := s.store.Get(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return s.describeByPrefix(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	view := FromRecord(record)
	return &view, nil
}

func (s *RecordService) describeByPrefix(ctx context.Context, prefix string) (*RecordView, error) {
	if prefix == "" {
		return nil, nil
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *records.FileRecord
	for _, record := range list {
		if !strings.HasPrefix(record.ID, prefix) {
			continue
		}
		if match != nil {
			return nil, errors.New("record id prefix is ambiguous: " + prefix)
		}
		match = record
	}
	if match == nil {
		return nil, nil
	}
	view := FromRecord(match)
	return &view, nil
}

// Clear removes records in the requested scope and reports how many were
// deleted.
func (s *RecordService) Clear(ctx context.Context, scope ClearScope) (int64, error) {
	switch scope {
	case ClearScopeCompleted:
		return s.store.ClearCompleted(ctx)
	case ClearScopeTerminal:
		return s.store.ClearTerminal(ctx)
	case ClearScopeAll, "":
		return s.store.Clear(ctx)
	default:
		return 0, errors.New("unknown clear scope: " + string(scope))
	}
}
