// Package ipc exposes daemon control to the CLI via JSON-RPC over a Unix
// domain socket. The wire types mirror the HTTP API DTOs so both surfaces
// render the same views.
package ipc
