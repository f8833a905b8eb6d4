package vfscore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirBackendCaseSensitiveLookup(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Save.dat"), []byte("hi"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	b, err := newDirBackend(root)
	if err != nil {
		t.Fatalf("newDirBackend: %v", err)
	}

	if !b.Exists("Save.dat") {
		t.Errorf("expected Save.dat to exist")
	}
	if b.Exists("save.dat") {
		t.Errorf("expected lowercase save.dat to NOT match on a case-sensitive lookup")
	}
	if b.Exists("SAVE.DAT") {
		t.Errorf("expected uppercase SAVE.DAT to NOT match on a case-sensitive lookup")
	}
}

func TestDirBackendEnumerate(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0644); err != nil {
			t.Fatalf("writing fixture %q: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	b, err := newDirBackend(root)
	if err != nil {
		t.Fatalf("newDirBackend: %v", err)
	}

	names, err := b.Enumerate("")
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	want := map[string]bool{"a.txt": false, "b.txt": false, "sub": false}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Errorf("unexpected entry %q", n)
			continue
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("expected %q in enumeration, got %v", n, names)
		}
	}

	if !b.IsDirectory("sub") {
		t.Errorf("expected sub to be reported as a directory")
	}
	if b.IsDirectory("a.txt") {
		t.Errorf("expected a.txt to not be reported as a directory")
	}
}

func TestDirBackendOpenReadNoSuchFile(t *testing.T) {
	root := t.TempDir()
	b, err := newDirBackend(root)
	if err != nil {
		t.Fatalf("newDirBackend: %v", err)
	}
	if _, err := b.OpenRead("missing.txt"); err != ErrNoSuchFile {
		t.Errorf("OpenRead(missing) = %v, want ErrNoSuchFile", err)
	}
}

func TestDirBackendWritesUnsupported(t *testing.T) {
	root := t.TempDir()
	b, err := newDirBackend(root)
	if err != nil {
		t.Fatalf("newDirBackend: %v", err)
	}
	if _, err := b.OpenWrite("x.txt"); err != ErrNoWriteDir {
		t.Errorf("OpenWrite = %v, want ErrNoWriteDir", err)
	}
	if err := b.Mkdir("sub"); err != ErrNotSupported {
		t.Errorf("Mkdir = %v, want ErrNotSupported", err)
	}
}

func TestDirBackendIsSymLinkDetectsIntermediateComponent(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "realdir")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatalf("mkdir realdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(realDir, "leaf.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	linkedDir := filepath.Join(root, "linkeddir")
	if err := os.Symlink(realDir, linkedDir); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	b, err := newDirBackend(root)
	if err != nil {
		t.Fatalf("newDirBackend: %v", err)
	}

	if !b.IsSymLink("linkeddir/leaf.txt") {
		t.Errorf("expected IsSymLink to report true: linkeddir is a symlinked intermediate component of linkeddir/leaf.txt")
	}
	if !b.IsSymLink("linkeddir") {
		t.Errorf("expected IsSymLink to report true for the symlink itself")
	}
	if b.IsSymLink("realdir/leaf.txt") {
		t.Errorf("expected IsSymLink to report false for a path with no symlinked component")
	}

	// resolveExact still transparently follows the symlink to resolve the
	// real file underneath it — only the symlink-gate decision changes.
	if !b.Exists("linkeddir/leaf.txt") {
		t.Errorf("expected linkeddir/leaf.txt to resolve to the real file")
	}
}

func TestNewDirBackendRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := newDirBackend(file); err != ErrNoSuchPath {
		t.Errorf("newDirBackend(file) = %v, want ErrNoSuchPath", err)
	}
}
