package records

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a file record.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusBypassed   Status = "bypassed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusProcessing,
	StatusCompleted,
	StatusError,
	StatusBypassed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// activeStatuses are the non-terminal states used for enqueue deduplication.
var activeStatuses = []Status{StatusQueued, StatusProcessing}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends a record's pipeline run.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusBypassed:
		return true
	default:
		return false
	}
}

// LogEntry captures the outcome of one stage attempt. Re-running a stage
// overwrites its entry; the latest attempt wins.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
	Error     string    `json:"error,omitempty"`
}

// Failed reports whether the entry records a stage failure rather than a
// stage that has not finished.
func (e LogEntry) Failed() bool {
	return !e.Completed && e.Error != ""
}

// FileRecord is the pipeline's tracked unit of work for one ingested file.
type FileRecord struct {
	ID             string
	SourcePath     string
	CurrentPath    string
	Status         Status
	Classification string
	Tags           []string
	NewName        string
	NewPath        string
	ExtractedText  string
	Logs           map[Action]LogEntry
	Bypassed       bool
	BypassReason   string
	Dispatched     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AppendLog records a stage attempt. Logs only ever contain entries for
// stages that have been attempted; unreached stages stay absent.
func (r *FileRecord) AppendLog(action Action, entry LogEntry) {
	if r.Logs == nil {
		r.Logs = make(map[Action]LogEntry, len(actionOrder))
	}
	r.Logs[action] = entry
}

// FailedAction returns the stage whose log entry records a failure, if any.
func (r *FileRecord) FailedAction() (Action, bool) {
	for _, action := range actionOrder {
		if entry, ok := r.Logs[action]; ok && entry.Failed() {
			return action, true
		}
	}
	return "", false
}

// ErrorMessage returns the failure message of the first failed stage.
func (r *FileRecord) ErrorMessage() string {
	if action, ok := r.FailedAction(); ok {
		return r.Logs[action].Error
	}
	return ""
}

// OrderedLogs returns the attempted (action, entry) pairs in execution order.
func (r *FileRecord) OrderedLogs() []AttemptedAction {
	out := make([]AttemptedAction, 0, len(r.Logs))
	for _, action := range actionOrder {
		if entry, ok := r.Logs[action]; ok {
			out = append(out, AttemptedAction{Action: action, Entry: entry})
		}
	}
	return out
}

// AttemptedAction pairs a stage with its latest log entry.
type AttemptedAction struct {
	Action Action
	Entry  LogEntry
}

// DeriveStatus computes a record's status purely from its action log plus
// the bypass and dispatch flags. The store applies it on every update, so
// the stored status can always be recomputed without drift.
func DeriveStatus(r *FileRecord) Status {
	if r == nil {
		return StatusQueued
	}
	if r.Bypassed {
		return StatusBypassed
	}
	if _, failed := r.FailedAction(); failed {
		return StatusError
	}
	if entry, ok := r.Logs[ActionCompleted]; ok && entry.Completed {
		return StatusCompleted
	}
	if r.Dispatched {
		return StatusProcessing
	}
	return StatusQueued
}
