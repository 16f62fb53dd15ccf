// Package stages implements the executors for the fixed processing sequence:
// cleanup, rename, extract, attachment relocation, classification, tag
// recommendation and application, name recommendation and application,
// formatting, and the final library move.
//
// Executors mutate the record they are handed; the scheduler persists the
// mutation together with the stage's log entry. Stages that cannot apply to
// a file (binary formats, empty files) declare a bypass instead of failing.
package stages
