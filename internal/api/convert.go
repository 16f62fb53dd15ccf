package api

import (
	"shelver/internal/analytics"
	"shelver/internal/records"
	"shelver/internal/stage"
)

// FromRecord converts a stored record into its external view.
func FromRecord(r *records.FileRecord) RecordView {
	view := RecordView{
		ID:             r.ID,
		SourcePath:     r.SourcePath,
		CurrentPath:    r.CurrentPath,
		Status:         string(r.Status),
		Classification: r.Classification,
		Tags:           append([]string(nil), r.Tags...),
		NewName:        r.NewName,
		NewPath:        r.NewPath,
		Bypassed:       r.Bypassed,
		BypassReason:   r.BypassReason,
		ErrorMessage:   r.ErrorMessage(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	attempted := r.OrderedLogs()
	view.Logs = make([]LogEntryView, 0, len(attempted))
	for _, attempt := range attempted {
		view.Logs = append(view.Logs, LogEntryView{
			Action:    string(attempt.Action),
			Label:     attempt.Action.Label(),
			Timestamp: attempt.Entry.Timestamp,
			Completed: attempt.Entry.Completed,
			Error:     attempt.Entry.Error,
		})
	}
	return view
}

// FromRecords converts a record snapshot, preserving order.
func FromRecords(list []*records.FileRecord) []RecordView {
	out := make([]RecordView, 0, len(list))
	for _, record := range list {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromSnapshot converts an analytics snapshot.
func FromSnapshot(s analytics.Snapshot) AnalyticsView {
	view := AnalyticsView{ByStatus: make(map[string]int, len(s.ByStatus)), Total: s.Total}
	for status, count := range s.ByStatus {
		view.ByStatus[string(status)] = count
	}
	return view
}

// FromStageHealth converts stage readiness reports.
func FromStageHealth(health []stage.Health) []StageHealth {
	out := make([]StageHealth, 0, len(health))
	for _, h := range health {
		out = append(out, StageHealth{Name: h.Name, Ready: h.Ready, Detail: h.Detail})
	}
	return out
}
