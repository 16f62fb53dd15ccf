package logs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelver.log")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastLinesReturnsTrailingWindow(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	lines, offset, err := LastLines(path, 2)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"three", "four"}) {
		t.Fatalf("lines = %v", lines)
	}
	if offset != int64(len("one\ntwo\nthree\nfour\n")) {
		t.Fatalf("offset = %d", offset)
	}
}

func TestLastLinesWithFewerLinesThanLimit(t *testing.T) {
	path := writeLog(t, "only\n")

	lines, _, err := LastLines(path, 10)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"only"}) {
		t.Fatalf("lines = %v", lines)
	}
}

func TestLastLinesMissingFile(t *testing.T) {
	lines, offset, err := LastLines(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	if len(lines) != 0 || offset != 0 {
		t.Fatalf("lines = %v, offset = %d", lines, offset)
	}
}

func TestReadFromReturnsOnlyNewLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\n")

	_, offset, err := LastLines(path, 10)
	if err != nil {
		t.Fatalf("last lines: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("three\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	lines, newOffset, err := ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"three"}) {
		t.Fatalf("lines = %v", lines)
	}
	if newOffset <= offset {
		t.Fatalf("offset did not advance: %d -> %d", offset, newOffset)
	}
}

func TestReadFromRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\n")
	if err := os.WriteFile(path, []byte("fresh\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	lines, _, err := ReadFrom(path, 100)
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"fresh"}) {
		t.Fatalf("lines = %v", lines)
	}
}
