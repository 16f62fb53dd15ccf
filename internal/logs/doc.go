// Package logs provides bounded-memory tailing of the daemon log file for
// `shelver logs`. Reads track a byte offset so follow mode only ships new
// lines, and "last N lines" requests never load the whole file into memory
// at once.
package logs
