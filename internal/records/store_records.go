package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const recordColumns = `id, source_path, current_path, status, classification, tags_json,
	new_name, new_path, extracted_text, logs_json, bypassed, bypass_reason, dispatched,
	created_at, updated_at`

// Create allocates a new queued record for the given file path. Path is the
// only validated input; everything else starts empty.
func (s *Store) Create(ctx context.Context, path string) (*FileRecord, error) {
	record, _, err := s.CreateUnlessActive(ctx, path)
	return record, err
}

// CreateUnlessActive creates a queued record for path unless a queued or
// processing record already references it. The returned bool reports whether
// a new record was created. The check and insert share one transaction, so
// concurrent enqueues of the same path cannot both create in-flight records.
func (s *Store) CreateUnlessActive(ctx context.Context, path string) (*FileRecord, bool, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, false, ErrInvalidPath
	}
	ctx = ensureContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE (current_path = ? OR source_path = ?) AND status IN (?, ?) ORDER BY seq LIMIT 1`,
		recordColumns,
	)
	existing, err := scanRecord(tx.QueryRowContext(ctx, query, trimmed, trimmed, string(StatusQueued), string(StatusProcessing)))
	if err == nil {
		if commitErr := tx.Commit(); commitErr != nil {
			return nil, false, fmt.Errorf("commit create tx: %w", commitErr)
		}
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("check active record: %w", err)
	}

	now := time.Now().UTC()
	record := &FileRecord{
		ID:          uuid.NewString(),
		SourcePath:  trimmed,
		CurrentPath: trimmed,
		Status:      StatusQueued,
		Logs:        map[Action]LogEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (id, source_path, current_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.SourcePath, record.CurrentPath, string(record.Status),
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
	); err != nil {
		return nil, false, fmt.Errorf("insert record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit create tx: %w", err)
	}
	return record, true, nil
}

// FindActive returns the queued or processing record referencing path, or
// ErrNotFound. Enqueue uses it to report which record a duplicate path
// resolved to.
func (s *Store) FindActive(ctx context.Context, path string) (*FileRecord, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, ErrInvalidPath
	}
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE (current_path = ? OR source_path = ?) AND status IN (?, ?) ORDER BY seq LIMIT 1`,
		recordColumns,
	)
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, trimmed, trimmed, string(StatusQueued), string(StatusProcessing)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active record: %w", err)
	}
	return record, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*FileRecord, error) {
	ctx = ensureContext(ctx)
	query := fmt.Sprintf(`SELECT %s FROM records WHERE id = ?`, recordColumns)
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return record, nil
}

// Update applies a mutation to the record and recomputes its status from the
// action log before persisting. The read-modify-write runs in a single
// transaction, so updates for one record never race with each other.
func (s *Store) Update(ctx context.Context, id string, mutate func(*FileRecord) error) (*FileRecord, error) {
	if mutate == nil {
		return nil, errors.New("mutator is required")
	}
	ctx = ensureContext(ctx)

	var updated *FileRecord
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin update tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		query := fmt.Sprintf(`SELECT %s FROM records WHERE id = ?`, recordColumns)
		record, err := scanRecord(tx.QueryRowContext(ctx, query, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load record %s: %w", id, err)
		}

		if err := mutate(record); err != nil {
			return err
		}
		record.Status = DeriveStatus(record)
		record.UpdatedAt = time.Now().UTC()

		tagsJSON, err := json.Marshal(record.Tags)
		if err != nil {
			return fmt.Errorf("encode tags: %w", err)
		}
		logsJSON, err := json.Marshal(record.Logs)
		if err != nil {
			return fmt.Errorf("encode logs: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE records SET current_path = ?, status = ?, classification = ?, tags_json = ?,
			 new_name = ?, new_path = ?, extracted_text = ?, logs_json = ?, bypassed = ?,
			 bypass_reason = ?, dispatched = ?, updated_at = ? WHERE id = ?`,
			record.CurrentPath, string(record.Status), record.Classification, string(tagsJSON),
			record.NewName, record.NewPath, record.ExtractedText, string(logsJSON),
			boolToInt(record.Bypassed), record.BypassReason, boolToInt(record.Dispatched),
			formatTime(record.UpdatedAt), record.ID,
		); err != nil {
			return fmt.Errorf("persist record %s: %w", id, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit update tx: %w", err)
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ClaimNext atomically claims the oldest queued record for processing.
// Returns (nil, nil) when the queue is empty.
func (s *Store) ClaimNext(ctx context.Context) (*FileRecord, error) {
	ctx = ensureContext(ctx)

	var claimed *FileRecord
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin claim tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		query := fmt.Sprintf(`SELECT %s FROM records WHERE status = ? ORDER BY seq LIMIT 1`, recordColumns)
		record, err := scanRecord(tx.QueryRowContext(ctx, query, string(StatusQueued)))
		if errors.Is(err, sql.ErrNoRows) {
			claimed = nil
			return tx.Commit()
		}
		if err != nil {
			return fmt.Errorf("select queued record: %w", err)
		}

		record.Dispatched = true
		record.Status = DeriveStatus(record)
		record.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE records SET dispatched = 1, status = ?, updated_at = ? WHERE id = ?`,
			string(record.Status), formatTime(record.UpdatedAt), record.ID,
		); err != nil {
			return fmt.Errorf("claim record %s: %w", record.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit claim tx: %w", err)
		}
		claimed = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// List returns a snapshot of records in insertion order, optionally filtered
// by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*FileRecord, error) {
	ctx = ensureContext(ctx)

	query := fmt.Sprintf(`SELECT %s FROM records`, recordColumns)
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*FileRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*FileRecord, error) {
	var (
		record     FileRecord
		status     string
		tagsJSON   string
		logsJSON   string
		bypassed   int
		dispatched int
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(
		&record.ID, &record.SourcePath, &record.CurrentPath, &status, &record.Classification,
		&tagsJSON, &record.NewName, &record.NewPath, &record.ExtractedText, &logsJSON,
		&bypassed, &record.BypassReason, &dispatched, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	record.Status = Status(status)
	record.Bypassed = bypassed != 0
	record.Dispatched = dispatched != 0

	if err := json.Unmarshal([]byte(tagsJSON), &record.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(logsJSON), &record.Logs); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	if record.Logs == nil {
		record.Logs = map[Action]LogEntry{}
	}

	var err error
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("decode updated_at: %w", err)
	}
	return &record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
