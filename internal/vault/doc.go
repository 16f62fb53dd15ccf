// Package vault performs the filesystem side of the pipeline: reading and
// rewriting note content, renaming files in place, relocating attachments,
// and moving finished files into the library tree.
//
// All destructive operations are collision-safe: a target path that already
// exists gets a numeric suffix rather than being overwritten.
package vault
