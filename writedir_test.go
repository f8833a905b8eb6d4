package vfscore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSetWriteDirAndRoundTrip(t *testing.T) {
	writeDir := t.TempDir()
	v := New(nil)

	if err := v.SetWriteDir(writeDir); err != nil {
		t.Fatalf("SetWriteDir: %v", err)
	}
	if got := v.WriteDir(); got != writeDir {
		t.Errorf("WriteDir() = %q, want %q", got, writeDir)
	}

	wh, err := v.OpenWrite("notes/todo.txt")
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	if _, err := wh.Write([]byte("buy milk")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wh.Close(); err != nil {
		t.Fatalf("Close write handle: %v", err)
	}

	if err := v.AddToSearchPath(writeDir, true); err != nil {
		t.Fatalf("AddToSearchPath(writeDir): %v", err)
	}

	rh, err := v.OpenRead("notes/todo.txt")
	if err != nil {
		t.Fatalf("OpenRead: %v", err)
	}
	defer rh.Close()

	data, err := io.ReadAll(rh)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "buy milk" {
		t.Errorf("round-tripped content = %q, want %q", string(data), "buy milk")
	}
}

func TestSetWriteDirRefusedWhileWriteHandleOpen(t *testing.T) {
	writeDir := t.TempDir()
	otherDir := t.TempDir()
	v := New(nil)

	if err := v.SetWriteDir(writeDir); err != nil {
		t.Fatalf("SetWriteDir: %v", err)
	}

	wh, err := v.OpenWrite("open.txt")
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}

	if err := v.SetWriteDir(otherDir); !errors.Is(err, ErrFilesOpenWrite) {
		t.Errorf("SetWriteDir while handle open = %v, want ErrFilesOpenWrite", err)
	}

	if err := wh.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := v.SetWriteDir(otherDir); err != nil {
		t.Errorf("SetWriteDir after close: %v", err)
	}
}

func TestOpenWriteWithoutWriteDir(t *testing.T) {
	v := New(nil)
	if _, err := v.OpenWrite("foo.txt"); !errors.Is(err, ErrNoWriteDir) {
		t.Errorf("OpenWrite without write dir = %v, want ErrNoWriteDir", err)
	}
}

func TestOpenAppend(t *testing.T) {
	writeDir := t.TempDir()
	v := New(nil)
	if err := v.SetWriteDir(writeDir); err != nil {
		t.Fatalf("SetWriteDir: %v", err)
	}

	for i := 0; i < 2; i++ {
		h, err := v.OpenAppend("log.txt")
		if err != nil {
			t.Fatalf("OpenAppend (iteration %d): %v", i, err)
		}
		if _, err := h.Write([]byte("line\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := h.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(writeDir, "log.txt"))
	if err != nil {
		t.Fatalf("reading appended file: %v", err)
	}
	if string(data) != "line\nline\n" {
		t.Errorf("appended content = %q, want two lines", string(data))
	}
}

func TestOpenWriteCreatesNestedParents(t *testing.T) {
	writeDir := t.TempDir()
	v := New(nil)
	if err := v.SetWriteDir(writeDir); err != nil {
		t.Fatalf("SetWriteDir: %v", err)
	}

	wh, err := v.OpenWrite("a/b/c/deep.txt")
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	if err := wh.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := os.Stat(filepath.Join(writeDir, "a", "b", "c"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected a/b/c to exist as a directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(writeDir, "a", "b", "c", "deep.txt")); err != nil {
		t.Errorf("expected deep.txt to exist: %v", err)
	}
}

func TestMkdirAndDelete(t *testing.T) {
	writeDir := t.TempDir()
	v := New(nil)
	if err := v.SetWriteDir(writeDir); err != nil {
		t.Fatalf("SetWriteDir: %v", err)
	}

	if err := v.Mkdir("a/b/c"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	info, err := os.Stat(filepath.Join(writeDir, "a", "b", "c"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected a/b/c to exist as a directory: %v", err)
	}

	if err := v.Delete("a/b/c"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(writeDir, "a", "b", "c")); !os.IsNotExist(err) {
		t.Errorf("expected a/b/c to be gone, stat err = %v", err)
	}
}
