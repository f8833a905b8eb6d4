package vfscore

import (
	"os"
	"path/filepath"
	"strings"

	"vfscore/internal/logging"
)

var dirBackendLogger = logging.GetLogger().WithPrefix("dirbackend")

// dirBackend is the default DirReader for a plain native directory. It
// performs case-sensitive, byte-exact name matching at the VFS layer even
// on case-insensitive hosts by enumerating the native directory and
// locating the entry with a byte-exact name match rather than handing the
// logical path straight to the host's open(2)/stat(2) (spec.md §4.2).
type dirBackend struct {
	root string
}

func isExistingDir(nativePath string) bool {
	info, err := os.Stat(nativePath)
	return err == nil && info.IsDir()
}

func newDirBackend(root string) (DirReader, error) {
	if !isExistingDir(root) {
		return nil, ErrNoSuchPath
	}
	return &dirBackend{root: root}, nil
}

// resolveExact walks logicalPath component-by-component from d.root,
// requiring a byte-exact match at each level via a directory listing
// (rather than a direct host lookup, which may be case-insensitive), and
// returns the resolved native path, the os.FileInfo of the final
// component, and whether ANY traversed component — intermediate or
// terminal — is itself a symlink. Every component is inspected via
// DirEntry.Info() (lstat semantics) before the walk continues into it, so
// a symlinked intermediate directory is flagged even though the
// subsequent os.ReadDir of its target otherwise follows it transparently
// (spec.md §4.4's "terminal or intermediate component" symlink gate).
func (d *dirBackend) resolveExact(logicalPath string) (string, os.FileInfo, bool, error) {
	native := d.root
	if logicalPath == "" {
		info, err := os.Lstat(native)
		return native, info, false, err
	}

	parts := strings.Split(logicalPath, "/")
	var info os.FileInfo
	symlinkSeen := false
	for _, part := range parts {
		entries, err := os.ReadDir(native)
		if err != nil {
			return "", nil, false, err
		}
		matched := false
		for _, e := range entries {
			if e.Name() == part {
				matched = true
				native = filepath.Join(native, part)
				info, err = e.Info()
				if err != nil {
					return "", nil, false, err
				}
				if info.Mode()&os.ModeSymlink != 0 {
					symlinkSeen = true
				}
				break
			}
		}
		if !matched {
			return "", nil, false, os.ErrNotExist
		}
	}
	return native, info, symlinkSeen, nil
}

func (d *dirBackend) Enumerate(logicalDir string) ([]string, error) {
	native, info, _, err := d.resolveExact(logicalDir)
	if err != nil {
		return nil, ErrNoSuchPath
	}
	if logicalDir != "" && !info.IsDir() {
		return nil, ErrNotADir
	}
	entries, err := os.ReadDir(native)
	if err != nil {
		return nil, ErrIOError
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	dirBackendLogger.Trace("enumerated %d entries in %q", len(names), native)
	return names, nil
}

func (d *dirBackend) Exists(logicalPath string) bool {
	_, _, _, err := d.resolveExact(logicalPath)
	return err == nil
}

func (d *dirBackend) IsDirectory(logicalPath string) bool {
	_, info, _, err := d.resolveExact(logicalPath)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		full := filepath.Join(d.root, logicalPath)
		real, err := os.Stat(full)
		return err == nil && real.IsDir()
	}
	return info.IsDir()
}

// IsSymLink reports whether any component of logicalPath — intermediate
// or terminal — is a symlink, so the caller's gate (resolve.go's
// visible) can hide the whole path rather than just a symlinked leaf.
func (d *dirBackend) IsSymLink(logicalPath string) bool {
	_, _, symlinkSeen, err := d.resolveExact(logicalPath)
	if err != nil {
		return false
	}
	return symlinkSeen
}

func (d *dirBackend) OpenRead(logicalPath string) (FileHandle, error) {
	native, info, _, err := d.resolveExact(logicalPath)
	if err != nil {
		return nil, ErrNoSuchFile
	}
	if info.IsDir() {
		return nil, ErrNotAFile
	}
	f, err := os.Open(native)
	if err != nil {
		return nil, ErrIOError
	}
	return newOSFileHandle(f), nil
}

func (d *dirBackend) OpenWrite(logicalPath string) (FileHandle, error) {
	return nil, ErrNoWriteDir
}

func (d *dirBackend) OpenAppend(logicalPath string) (FileHandle, error) {
	return nil, ErrNoWriteDir
}

func (d *dirBackend) Remove(logicalPath string) error {
	return ErrNotSupported
}

func (d *dirBackend) Mkdir(logicalPath string) error {
	return ErrNotSupported
}

func (d *dirBackend) Close() error {
	return nil
}
