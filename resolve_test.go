package vfscore

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %q: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %q: %v", path, err)
	}
}

func TestOpenReadFirstMatchWins(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	mustWrite(t, filepath.Join(rootA, "config.ini"), "from-a")
	mustWrite(t, filepath.Join(rootB, "config.ini"), "from-b")

	v := New(nil)
	if err := v.AddToSearchPath(rootA, true); err != nil {
		t.Fatalf("AddToSearchPath(rootA): %v", err)
	}
	if err := v.AddToSearchPath(rootB, true); err != nil {
		t.Fatalf("AddToSearchPath(rootB): %v", err)
	}

	h, err := v.OpenRead("config.ini")
	if err != nil {
		t.Fatalf("OpenRead: %v", err)
	}
	defer h.Close()

	buf := make([]byte, 16)
	n, err := h.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if got := string(buf[:n]); got != "from-a" {
		t.Errorf("content = %q, want %q (earlier root must win)", got, "from-a")
	}
}

func TestOpenReadNoSuchFile(t *testing.T) {
	root := t.TempDir()
	v := New(nil)
	if err := v.AddToSearchPath(root, true); err != nil {
		t.Fatalf("AddToSearchPath: %v", err)
	}
	if _, err := v.OpenRead("missing.txt"); err == nil {
		t.Fatalf("expected error opening missing file")
	}
}

func TestEnumerateFilesMergeAndDedup(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	mustWrite(t, filepath.Join(rootA, "shared.txt"), "a")
	mustWrite(t, filepath.Join(rootA, "only-a.txt"), "a")
	mustWrite(t, filepath.Join(rootB, "shared.txt"), "b")
	mustWrite(t, filepath.Join(rootB, "only-b.txt"), "b")

	v := New(nil)
	if err := v.AddToSearchPath(rootA, true); err != nil {
		t.Fatalf("AddToSearchPath(rootA): %v", err)
	}
	if err := v.AddToSearchPath(rootB, true); err != nil {
		t.Fatalf("AddToSearchPath(rootB): %v", err)
	}

	names, err := v.EnumerateFiles("")
	if err != nil {
		t.Fatalf("EnumerateFiles: %v", err)
	}

	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	for _, want := range []string{"shared.txt", "only-a.txt", "only-b.txt"} {
		if seen[want] != 1 {
			t.Errorf("expected exactly one occurrence of %q, got %d (names=%v)", want, seen[want], names)
		}
	}
}

func TestExistsAndIsDirectory(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "sub", "leaf.txt"), "x")

	v := New(nil)
	if err := v.AddToSearchPath(root, true); err != nil {
		t.Fatalf("AddToSearchPath: %v", err)
	}

	if !v.Exists("sub/leaf.txt") {
		t.Errorf("expected sub/leaf.txt to exist")
	}
	if !v.IsDirectory("sub") {
		t.Errorf("expected sub to be a directory")
	}
	if v.IsDirectory("sub/leaf.txt") {
		t.Errorf("expected sub/leaf.txt to not be a directory")
	}
	if v.Exists("nope.txt") {
		t.Errorf("expected nope.txt to not exist")
	}
}

func TestSymlinkGate(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "real.txt"), "x")
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(filepath.Join(root, "real.txt"), link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	v := New(nil)
	if err := v.AddToSearchPath(root, true); err != nil {
		t.Fatalf("AddToSearchPath: %v", err)
	}

	if v.Exists("link.txt") {
		t.Errorf("expected link.txt to be invisible with symlinks forbidden by default")
	}

	v.PermitSymbolicLinks(true)
	if !v.Exists("link.txt") {
		t.Errorf("expected link.txt to become visible once symlinks are permitted")
	}
}

func TestSymlinkGateIntermediateComponent(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "realdir")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatalf("mkdir realdir: %v", err)
	}
	mustWrite(t, filepath.Join(realDir, "leaf.txt"), "x")

	linkedDir := filepath.Join(root, "linkeddir")
	if err := os.Symlink(realDir, linkedDir); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	v := New(nil)
	if err := v.AddToSearchPath(root, true); err != nil {
		t.Fatalf("AddToSearchPath: %v", err)
	}

	// linkeddir/leaf.txt has no symlink as its terminal component, but
	// "linkeddir" itself is a symlink — the whole path must be invisible
	// with symlinks forbidden.
	if v.Exists("linkeddir/leaf.txt") {
		t.Errorf("expected linkeddir/leaf.txt to be invisible: linkeddir is a symlinked intermediate component")
	}
	if _, err := v.OpenRead("linkeddir/leaf.txt"); err == nil {
		t.Errorf("expected OpenRead to fail on a path with a symlinked intermediate component")
	}
	if v.IsDirectory("linkeddir") {
		t.Errorf("expected linkeddir to be invisible with symlinks forbidden")
	}

	v.PermitSymbolicLinks(true)
	if !v.Exists("linkeddir/leaf.txt") {
		t.Errorf("expected linkeddir/leaf.txt to become visible once symlinks are permitted")
	}
}
