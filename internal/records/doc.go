// Package records tracks the lifecycle of files moving through the inbox
// pipeline and exposes helpers for driving their state.
//
// The Store keeps one FileRecord per ingested file, including the per-stage
// action log that makes progress and failures observable. Records are held in
// an in-memory SQLite database scoped to the process lifetime; nothing is
// persisted across restarts. The only eviction is an explicit clear.
//
// Treat this package as the single source of truth for record semantics: a
// record's status is always recomputed from its action log via DeriveStatus,
// never assigned ad hoc by callers.
package records
