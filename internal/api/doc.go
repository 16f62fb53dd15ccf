// Package api defines the DTOs shared by the HTTP dashboard endpoint and the
// IPC surface, plus the conversions from internal record state.
//
// Views are snapshots: the dashboard polls them, so they carry everything a
// renderer needs (ordered logs with display labels, derived error message)
// without further store access.
package api
