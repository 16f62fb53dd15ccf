// Package logging builds the slog loggers used across the daemon and CLI.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log files and scripting. Attr helpers and standardized
// field keys keep stage and record identifiers consistent between the
// scheduler, the stage executors, and the API surface.
package logging
