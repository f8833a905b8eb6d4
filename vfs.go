// Package vfscore implements a portable virtual file system: applications
// address resources through a single, platform-independent, case-sensitive
// path syntax resolved against an ordered search path of directories and
// archives, with writes directed to a separate write directory.
package vfscore

import (
	"sync"
	"sync/atomic"

	"vfscore/internal/logging"
	"vfscore/internal/platform"
)

var vfsLogger = logging.GetLogger().WithPrefix("lifecycle")

// VFS is the process-wide configuration object spec.md §3 describes as
// the Config entity: initialized flag, base/user/write dirs, search path,
// symlink toggle, and open-write counter, encapsulated behind an explicit
// value per spec.md §9's design note rather than left as bare package
// globals.
type VFS struct {
	mu            sync.RWMutex
	initialized   bool
	baseDir       string
	userDir       string
	writeDir      string
	searchPath    *SearchPath
	allowSymLinks bool
	openWriteCount int32 // atomic

	platform platform.Platform
}

// New constructs an uninitialized VFS bound to plat. Most callers should
// use the package-level default instance via the top-level functions in
// facade.go instead, which mirrors the C API's implicit global state for
// compatibility with single-VFS-per-process applications; New exists for
// tests and for applications that genuinely need more than one VFS.
func New(plat platform.Platform) *VFS {
	if plat == nil {
		plat = platform.Default()
	}
	return &VFS{
		searchPath: newSearchPath(),
		platform:   plat,
	}
}

// Init computes the base directory from arg0 and marks the VFS ready for
// use. It refuses if already initialized (spec.md §4.6).
func (v *VFS) Init(arg0 string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return newErr("init", arg0, ErrIsInitialized)
	}

	base, err := v.platform.BaseDir(arg0)
	if err != nil {
		return newErr("init", arg0, ErrIOError)
	}
	user, err := v.platform.UserDir()
	if err != nil {
		vfsLogger.Warn("could not resolve user dir: %v", err)
		user = ""
	}

	v.baseDir = base
	v.userDir = user
	v.initialized = true
	vfsLogger.Info("initialized (baseDir=%q, userDir=%q)", base, user)
	return nil
}

// Deinit tears down the VFS: it fails if any write handle is open
// (ErrFilesOpenWrite) or any search-path reader still has a live handle
// (ErrFilesStillOpen, see DESIGN.md's Open Questions on why this repo
// does not force-close instead). Both checks run before anything is
// mutated, so a failed Deinit leaves the search path, write dir, and
// initialized state exactly as they were — otherwise closes every
// search-path reader, clears the write dir, frees latched error slots,
// and resets state so Init can be called again (spec.md §4.6).
func (v *VFS) Deinit() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return newErr("deinit", "", ErrNotInitialized)
	}
	if atomic.LoadInt32(&v.openWriteCount) > 0 {
		return newErr("deinit", "", ErrFilesOpenWrite)
	}
	if v.searchPath.hasOpenHandles() {
		return newErr("deinit", "", ErrFilesStillOpen)
	}

	v.searchPath.closeAll()

	v.writeDir = ""
	v.baseDir = ""
	v.userDir = ""
	v.allowSymLinks = false
	v.searchPath = newSearchPath()
	v.initialized = false
	freeErrorMessages()

	vfsLogger.Info("deinitialized")
	return nil
}

// Initialized reports whether Init has succeeded without a matching
// Deinit.
func (v *VFS) Initialized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.initialized
}

// BaseDir returns the directory Init derived from arg0.
func (v *VFS) BaseDir() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.baseDir
}

// UserDir returns the current user's home directory, as resolved by the
// platform adapter at Init time. Unlike the inherited physfs.c bug
// (spec.md §9 — PHYSFS_getUserDir always returned baseDir, shadowing its
// own computed value), this returns the actual resolved user dir.
func (v *VFS) UserDir() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.userDir
}

// CdRomDirs returns the currently detected removable-media roots.
func (v *VFS) CdRomDirs() []string {
	return v.platform.RemovableMediaDirs()
}

// AllowSymLinks reports the current symlink-gate setting.
func (v *VFS) AllowSymLinks() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.allowSymLinks
}

// PermitSymbolicLinks toggles the global symlink gate (spec.md §4.2,
// §5 — a configuration mutator requiring external exclusion from
// concurrent reads).
func (v *VFS) PermitSymbolicLinks(allow bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.allowSymLinks = allow
	vfsLogger.Info("symbolic links permitted: %v", allow)
}

// AddToSearchPath opens root and inserts it into the search path.
func (v *VFS) AddToSearchPath(root string, appendToTail bool) error {
	return v.searchPath.Add(root, appendToTail)
}

// RemoveFromSearchPath closes and removes root from the search path.
func (v *VFS) RemoveFromSearchPath(root string) error {
	return v.searchPath.Remove(root)
}

// GetSearchPath returns a fresh copy of the search path's root strings,
// in order.
func (v *VFS) GetSearchPath() []string {
	return v.searchPath.List()
}
