package api

import "time"

// RecordView is the external representation of one file record.
type RecordView struct {
	ID             string         `json:"id"`
	SourcePath     string         `json:"source_path"`
	CurrentPath    string         `json:"current_path"`
	Status         string         `json:"status"`
	Classification string         `json:"classification,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	NewName        string         `json:"new_name,omitempty"`
	NewPath        string         `json:"new_path,omitempty"`
	Bypassed       bool           `json:"bypassed,omitempty"`
	BypassReason   string         `json:"bypass_reason,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	Logs           []LogEntryView `json:"logs"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// LogEntryView is one attempted stage in execution order, with the display
// label the dashboard renders.
type LogEntryView struct {
	Action    string    `json:"action"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
	Error     string    `json:"error,omitempty"`
}

// RecordListResponse wraps a record snapshot.
type RecordListResponse struct {
	Records []RecordView `json:"records"`
}

// RecordResponse wraps a single record.
type RecordResponse struct {
	Record RecordView `json:"record"`
}

// EnqueueRequest submits file paths for processing.
type EnqueueRequest struct {
	Paths []string `json:"paths"`
}

// EnqueueResponse returns the record IDs representing each submitted path.
// Deduplicated paths resolve to their existing in-flight record.
type EnqueueResponse struct {
	IDs []string `json:"ids"`
}

// AnalyticsView is the per-status aggregate the dashboard polls.
type AnalyticsView struct {
	ByStatus map[string]int `json:"by_status"`
	Total    int            `json:"total"`
}

// StageHealth describes readiness of one pipeline stage.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus is the combined daemon snapshot.
type DaemonStatus struct {
	Running      bool          `json:"running"`
	PID          int           `json:"pid"`
	LockFilePath string        `json:"lock_file_path"`
	InboxDir     string        `json:"inbox_dir"`
	Workers      int           `json:"workers"`
	Analytics    AnalyticsView `json:"analytics"`
	StageHealth  []StageHealth `json:"stage_health"`
}

// ClearScope selects which records a clear request removes.
type ClearScope string

const (
	ClearScopeAll       ClearScope = "all"
	ClearScopeCompleted ClearScope = "completed"
	ClearScopeTerminal  ClearScope = "terminal"
)
