package vfscore

import (
	"sync"

	"vfscore/internal/logging"
)

var readerLogger = logging.GetLogger().WithPrefix("reader")

// ArchiveInfo describes a registered archive backend, analogous to
// physfs.c's __PHYSFS_ArchiveInfo.
type ArchiveInfo struct {
	Extension   string
	Description string
	Author      string
	URL         string
}

// DirReader is the polymorphic read/write root: a directory or an opened
// archive. Every capability is a plain interface method instead of the
// original's function-pointer vtable slot (spec.md §9 design note); a
// backend that cannot support a capability returns an error wrapping
// ErrNotSupported rather than omitting the method.
type DirReader interface {
	// Enumerate lists the immediate children of logicalDir ("" for root).
	Enumerate(logicalDir string) ([]string, error)
	Exists(logicalPath string) bool
	IsDirectory(logicalPath string) bool
	IsSymLink(logicalPath string) bool
	OpenRead(logicalPath string) (FileHandle, error)
	OpenWrite(logicalPath string) (FileHandle, error)
	OpenAppend(logicalPath string) (FileHandle, error)
	Remove(logicalPath string) error
	Mkdir(logicalPath string) error
	Close() error
}

// BackendProbe reports whether a backend recognizes nativePath as one of
// its own archives.
type BackendProbe func(nativePath string) bool

// BackendOpen opens nativePath with the backend that probed true for it.
type BackendOpen func(nativePath string) (DirReader, error)

type backendReg struct {
	info  ArchiveInfo
	probe BackendProbe
	open  BackendOpen
}

var (
	backendsMu sync.Mutex
	backends   []backendReg
)

// RegisterArchiveBackend adds an archive backend to the fixed,
// registration-ordered list getDirReader probes against. Backends
// register themselves from an init() function, the same self-registration
// idiom the standard library uses for image and database drivers.
func RegisterArchiveBackend(info ArchiveInfo, probe BackendProbe, open BackendOpen) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	readerLogger.Info("registering archive backend: %s (%s)", info.Extension, info.Description)
	backends = append(backends, backendReg{info: info, probe: probe, open: open})
}

// SupportedArchiveTypes returns a fresh copy of the static table of
// registered backends (spec.md §6).
func SupportedArchiveTypes() []ArchiveInfo {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	out := make([]ArchiveInfo, len(backends))
	for i, b := range backends {
		out[i] = b.info
	}
	return out
}

// getDirReader opens nativePath with the first backend whose probe
// matches, falling back to the native directory backend if nativePath
// names an existing directory, and failing with ErrUnsupportedArchive
// otherwise (spec.md §4.2).
func getDirReader(nativePath string) (DirReader, error) {
	backendsMu.Lock()
	regs := make([]backendReg, len(backends))
	copy(regs, backends)
	backendsMu.Unlock()

	for _, b := range regs {
		if b.probe(nativePath) {
			readerLogger.Debug("opening %q with backend %q", nativePath, b.info.Extension)
			return b.open(nativePath)
		}
	}

	if isExistingDir(nativePath) {
		readerLogger.Debug("opening %q as a plain directory", nativePath)
		return newDirBackend(nativePath)
	}

	readerLogger.Warn("no backend claims %q", nativePath)
	return nil, ErrUnsupportedArchive
}
