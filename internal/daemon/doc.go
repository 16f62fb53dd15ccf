// Package daemon assembles the long-running process: single-instance lock,
// the scheduler worker pool, the inbox watcher, and the HTTP dashboard API.
// The IPC control surface lives in internal/ipc and drives the daemon through
// the methods exposed here.
package daemon
