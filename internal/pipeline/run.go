package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shelver/internal/logging"
	"shelver/internal/records"
	"shelver/internal/services"
)

func (s *Scheduler) runWorker(ctx context.Context, worker int) {
	logger := s.logger.With(logging.Int("worker", worker))
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		record, err := s.store.ClaimNext(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("failed to claim next record",
				logging.Error(err),
				logging.String(logging.FieldEventType, "claim_failed"),
				logging.String(logging.FieldErrorHint, "check record store access"),
			)
			s.waitOrShutdown(ctx, s.retryInterval)
			continue
		}
		if record == nil {
			s.waitOrShutdown(ctx, s.pollInterval)
			continue
		}

		s.processRecord(ctx, logger, record)
	}
}

func (s *Scheduler) waitOrShutdown(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		delay = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// processRecord runs every stage for one claimed record in order. All stage
// outcomes are written to the record; the worker returns once the record is
// terminal or the run is aborted.
func (s *Scheduler) processRecord(ctx context.Context, workerLogger *slog.Logger, record *records.FileRecord) {
	requestID := uuid.NewString()
	runCtx := services.WithRecordID(ctx, record.ID)
	runCtx = services.WithRequestID(runCtx, requestID)
	logger := workerLogger.With(
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldCorrelationID, requestID),
	)
	logger.Info("processing started",
		logging.String(logging.FieldEventType, "record_start"),
		logging.String("path", record.CurrentPath),
	)

	for _, action := range records.ExecutableActions() {
		fresh, err := s.store.Get(runCtx, record.ID)
		if err != nil {
			logger.Error("failed to reload record before stage",
				logging.Error(err),
				logging.String(logging.FieldStage, string(action)),
			)
			return
		}
		// The record may have been cleared or mutated externally while the
		// run was in flight. Anything but processing means this run no
		// longer owns the record.
		if fresh.Status != records.StatusProcessing {
			logger.Debug("record no longer processing; aborting run",
				logging.String("status", string(fresh.Status)),
				logging.String(logging.FieldStage, string(action)),
			)
			return
		}

		done, err := s.runStage(runCtx, logger, fresh, action)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("failed to persist stage outcome",
				logging.Error(err),
				logging.String(logging.FieldStage, string(action)),
				logging.String(logging.FieldErrorHint, "check record store access"),
			)
			return
		}
		if done {
			return
		}
	}

	if _, err := s.store.Update(runCtx, record.ID, func(r *records.FileRecord) error {
		r.AppendLog(records.ActionCompleted, records.LogEntry{Timestamp: time.Now().UTC(), Completed: true})
		return nil
	}); err != nil {
		logger.Error("failed to mark record completed", logging.Error(err))
		return
	}
	logger.Info("processing completed",
		logging.String(logging.FieldEventType, "record_complete"),
	)
}

// runStage executes one stage and persists its outcome. The bool result
// reports whether the record's run is over (bypass or failure); the error is
// only for persistence problems, never stage failures.
func (s *Scheduler) runStage(ctx context.Context, logger *slog.Logger, record *records.FileRecord, action records.Action) (bool, error) {
	stageCtx := services.WithStage(ctx, string(action))
	stageLogger := logger.With(logging.String(logging.FieldStage, string(action)))
	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	start := time.Now()

	execErr := s.handlers[action].Execute(stageCtx, record)
	finished := time.Now().UTC()

	switch {
	case execErr == nil:
		if _, err := s.store.Update(ctx, record.ID, func(r *records.FileRecord) error {
			applyMutations(r, record)
			r.AppendLog(action, records.LogEntry{Timestamp: finished, Completed: true})
			return nil
		}); err != nil {
			return true, err
		}
		stageLogger.Info("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("elapsed", time.Since(start)),
		)
		return false, nil

	case services.IsBypass(execErr):
		reason := services.Message(execErr)
		if _, err := s.store.Update(ctx, record.ID, func(r *records.FileRecord) error {
			applyMutations(r, record)
			r.Bypassed = true
			r.BypassReason = reason
			return nil
		}); err != nil {
			return true, err
		}
		stageLogger.Info("record bypassed",
			logging.String(logging.FieldEventType, "record_bypassed"),
			logging.String("reason", reason),
		)
		return true, nil

	case errors.Is(execErr, context.Canceled):
		return true, execErr

	default:
		message := services.Message(execErr)
		if _, err := s.store.Update(ctx, record.ID, func(r *records.FileRecord) error {
			applyMutations(r, record)
			r.AppendLog(action, records.LogEntry{Timestamp: finished, Completed: false, Error: message})
			return nil
		}); err != nil {
			return true, err
		}
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(execErr),
		)
		return true, nil
	}
}

// applyMutations copies the fields a stage may change from the executed copy
// onto the stored record inside the update transaction.
func applyMutations(dst, src *records.FileRecord) {
	dst.CurrentPath = src.CurrentPath
	dst.Classification = src.Classification
	dst.Tags = src.Tags
	dst.NewName = src.NewName
	dst.NewPath = src.NewPath
	dst.ExtractedText = src.ExtractedText
}
