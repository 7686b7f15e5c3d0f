package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenInputStdinOnEmptyOrDash(t *testing.T) {
	for _, path := range []string{"", "-"} {
		in, closeIn, err := openInput(path)
		if err != nil {
			t.Fatalf("openInput(%q): %v", path, err)
		}
		if in != os.Stdin {
			t.Fatalf("openInput(%q) did not return os.Stdin", path)
		}
		closeIn()
	}
}

func TestOpenInputReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.bin")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	in, closeIn, err := openInput(path)
	if err != nil {
		t.Fatalf("openInput: %v", err)
	}
	defer closeIn()
	data, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want %q", data, "hello")
	}
}

func TestOpenInputMissingFileFails(t *testing.T) {
	if _, _, err := openInput("/nonexistent/capture.bin"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadOnlyReadWriterRejectsWrite(t *testing.T) {
	rw := readOnlyReadWriter{strings.NewReader("x")}
	if _, err := rw.Write([]byte("y")); err == nil {
		t.Fatalf("expected write to fail on a read-only adapter")
	}
}
