package vfscore

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"vfscore/internal/logging"
)

var writeDirLogger = logging.GetLogger().WithPrefix("writedir")

// SetWriteDir sets the single root against which Mkdir/Delete/OpenWrite/
// OpenAppend operate. It refuses while any write handle is open
// (spec.md §3's "open-write-file count > 0 ⇒ setWriteDir is refused",
// testable property §8.7), and refuses a path that is not an existing
// directory. Whether the directory is writable is not checked; an empty
// path clears the write dir.
func (v *VFS) SetWriteDir(path string) error {
	if atomic.LoadInt32(&v.openWriteCount) > 0 {
		return newErr("setWriteDir", path, ErrFilesOpenWrite)
	}

	if path != "" {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return newErr("setWriteDir", path, ErrInvalidArgument)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeDir = path
	writeDirLogger.Info("write dir set to %q", path)
	return nil
}

// WriteDir returns the currently configured write dir, or "" if none is
// set.
func (v *VFS) WriteDir() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.writeDir
}

// translateToNative maps a normalized logical path onto a native path
// rooted at the write dir, replacing '/' with the platform separator
// component-by-component (spec.md §4.4 "Write translation") — the correct
// strcat-style join, fixing the source's append-via-strcpy truncation bug
// (spec.md §9).
func (v *VFS) translateToNative(norm string) (string, error) {
	writeDir := v.WriteDir()
	if writeDir == "" {
		return "", newErr("translateToNative", norm, ErrNoWriteDir)
	}
	if norm == "" {
		return writeDir, nil
	}
	components := strings.Split(norm, "/")
	return filepath.Join(append([]string{writeDir}, components...)...), nil
}

// Mkdir creates dir (and any missing intermediate components) under the
// write dir.
func (v *VFS) Mkdir(path string) error {
	norm, err := normalizePath(path)
	if err != nil {
		return err
	}
	native, err := v.translateToNative(norm)
	if err != nil {
		return newErr("mkdir", path, err)
	}
	if err := v.platform.MkdirAll(native); err != nil {
		return newErr("mkdir", path, ErrNoDirCreate)
	}
	writeDirLogger.Debug("created directory %q", native)
	return nil
}

// Delete removes the file or empty directory named by path from the
// write dir, delegating to the platform remove primitive (spec.md §4.4).
func (v *VFS) Delete(path string) error {
	norm, err := normalizePath(path)
	if err != nil {
		return err
	}
	native, err := v.translateToNative(norm)
	if err != nil {
		return newErr("delete", path, err)
	}
	if err := v.platform.Remove(native); err != nil {
		return newErr("delete", path, ErrIOError)
	}
	writeDirLogger.Debug("deleted %q", native)
	return nil
}

// OpenWrite creates/truncates path under the write dir for writing.
func (v *VFS) OpenWrite(path string) (*Handle, error) {
	return v.openWriteDirFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, modeWrite)
}

// OpenAppend opens path under the write dir for append-only writing,
// creating it if necessary.
func (v *VFS) OpenAppend(path string) (*Handle, error) {
	return v.openWriteDirFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, modeAppend)
}

func (v *VFS) openWriteDirFile(path string, flag int, mode openMode) (*Handle, error) {
	norm, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	native, err := v.translateToNative(norm)
	if err != nil {
		return nil, newErr("openWrite", path, err)
	}

	if parent, _ := splitParent(norm); parent != "" {
		if nativeParent, err := v.translateToNative(parent); err == nil {
			_ = v.platform.MkdirAll(nativeParent)
		}
	}

	f, err := os.OpenFile(native, flag, 0644)
	if err != nil {
		return nil, newErr("openWrite", path, ErrIOError)
	}

	writeDirLogger.Debug("opened %q for write(mode=%d)", native, mode)
	return newHandle(v, nil, norm, newOSFileHandle(f), mode), nil
}
