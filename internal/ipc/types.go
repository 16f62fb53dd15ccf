package ipc

import "shelver/internal/api"

// RecordView mirrors the HTTP API record DTO for IPC callers.
type RecordView = api.RecordView

// StageHealth describes readiness of a pipeline stage.
type StageHealth = api.StageHealth

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse is the combined daemon snapshot.
type StatusResponse = api.DaemonStatus

// EnqueueRequest submits file paths for processing.
type EnqueueRequest struct {
	Paths []string `json:"paths"`
}

// EnqueueResponse returns the record ID for each submitted path.
type EnqueueResponse struct {
	IDs []string `json:"ids"`
}

// RecordListRequest filters the record listing by status.
type RecordListRequest struct {
	Statuses []string `json:"statuses"`
}

// RecordListResponse contains the record snapshot.
type RecordListResponse struct {
	Records []RecordView `json:"records"`
}

// RecordDescribeRequest fetches a single record by id.
type RecordDescribeRequest struct {
	ID string `json:"id"`
}

// RecordDescribeResponse contains a single record.
type RecordDescribeResponse struct {
	Record RecordView `json:"record"`
}

// ClearRequest removes records in the given scope: "all", "completed", or
// "terminal".
type ClearRequest struct {
	Scope string `json:"scope"`
}

// ClearResponse reports number of removed records.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// AnalyticsRequest fetches the aggregate snapshot.
type AnalyticsRequest struct{}

// AnalyticsResponse is the per-status aggregate.
type AnalyticsResponse = api.AnalyticsView
