// Package textutil provides filename and path-segment sanitization shared by
// the naming and filing stages.
package textutil
