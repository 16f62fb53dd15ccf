// Package pipeline schedules file records through the fixed stage sequence.
//
// A configurable number of workers each claim one queued record at a time and
// run its stages strictly in order. Stages for one record never overlap;
// different records progress in parallel. Every stage outcome is converted to
// record state (a log entry plus derived status) before the worker moves on,
// so stage errors never escape the scheduler.
package pipeline
