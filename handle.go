package vfscore

import (
	"io"
	"sync"
	"sync/atomic"

	"vfscore/internal/logging"
)

var handleLogger = logging.GetLogger().WithPrefix("handle")

// FileHandle is the backend-provided capability object behind an open
// file. Concrete backends implement it directly; Handle (below) is the
// caller-facing wrapper that adds refcounting and the Closed state check
// spec.md §4.5 requires.
type FileHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Eof() bool
	Tell() (int64, error)
	Seek(offset int64, whence int) (int64, error)
	Length() (int64, error)
	Close() error
}

// UnsupportedHandle is embedded by backends that cannot support every
// FileHandle capability (e.g. a read-only archive has no Write), so that
// embedding a struct with "not supported" defaults is enough to satisfy
// the interface rather than every backend hand-rolling stub methods —
// the same embedding idiom as io.NopCloser's counterparts in the standard
// library. Absence of a capability surfaces as ErrNotSupported, per
// spec.md §4.5 ("Any slot may be absent on a given backend").
type UnsupportedHandle struct{}

func (UnsupportedHandle) Read(_ []byte) (int, error)            { return 0, ErrNotSupported }
func (UnsupportedHandle) Write(_ []byte) (int, error)           { return 0, ErrNotSupported }
func (UnsupportedHandle) Eof() bool                              { return true }
func (UnsupportedHandle) Tell() (int64, error)                   { return 0, ErrNotSupported }
func (UnsupportedHandle) Seek(_ int64, _ int) (int64, error)     { return 0, ErrNotSupported }
func (UnsupportedHandle) Length() (int64, error)                { return 0, ErrNotSupported }
func (UnsupportedHandle) Close() error                           { return nil }

// openMode records which capability an open call was made through, used
// only for bookkeeping the global open-write counter on Close.
type openMode int

const (
	modeRead openMode = iota
	modeWrite
	modeAppend
)

// Handle is the caller-owned handle returned by VFS.OpenRead/OpenWrite/
// OpenAppend. It back-references the owning search-path entry purely to
// decrement its live-handle counter on Close (spec.md §3's "per-reader
// counter rather than a parent pointer" guidance), and enforces the
// Open -> Closed state machine from spec.md §4.5.
type Handle struct {
	mu     sync.Mutex
	path   string
	fh     FileHandle
	mode   openMode
	owner  *searchPathEntry
	vfs    *VFS
	closed bool
}

func newHandle(vfs *VFS, owner *searchPathEntry, path string, fh FileHandle, mode openMode) *Handle {
	if owner != nil {
		atomic.AddInt32(&owner.handles, 1)
	}
	if mode != modeRead {
		atomic.AddInt32(&vfs.openWriteCount, 1)
	}
	return &Handle{path: path, fh: fh, mode: mode, owner: owner, vfs: vfs}
}

func (h *Handle) checkOpen(op string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return newErr(op, h.path, ErrInvalidArgument)
	}
	return nil
}

// Read reads into p, returning (-1-equivalent) via a non-nil error on
// failure, per spec.md §4.5's dispatch table (the -1 sentinel from the C
// API becomes an idiomatic Go error return here).
func (h *Handle) Read(p []byte) (int, error) {
	if err := h.checkOpen("read"); err != nil {
		return 0, err
	}
	n, err := h.fh.Read(p)
	if err != nil && err != io.EOF {
		return n, newErr("read", h.path, err)
	}
	return n, err
}

func (h *Handle) Write(p []byte) (int, error) {
	if err := h.checkOpen("write"); err != nil {
		return 0, err
	}
	if h.mode == modeRead {
		return 0, newErr("write", h.path, ErrInvalidArgument)
	}
	n, err := h.fh.Write(p)
	if err != nil {
		return n, newErr("write", h.path, err)
	}
	return n, nil
}

func (h *Handle) Eof() bool {
	if err := h.checkOpen("eof"); err != nil {
		return true
	}
	return h.fh.Eof()
}

func (h *Handle) Tell() (int64, error) {
	if err := h.checkOpen("tell"); err != nil {
		return 0, err
	}
	pos, err := h.fh.Tell()
	if err != nil {
		return 0, newErr("tell", h.path, err)
	}
	return pos, nil
}

// Seek honors io.Seeker's whence values. Seeking past end of file is
// permitted by the backend or rejected with ErrPastEOF, per spec.md §4.5.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if err := h.checkOpen("seek"); err != nil {
		return 0, err
	}
	pos, err := h.fh.Seek(offset, whence)
	if err != nil {
		return 0, newErr("seek", h.path, err)
	}
	return pos, nil
}

func (h *Handle) Length() (int64, error) {
	if err := h.checkOpen("length"); err != nil {
		return 0, err
	}
	n, err := h.fh.Length()
	if err != nil {
		return 0, newErr("length", h.path, err)
	}
	return n, nil
}

// Close releases the backend resource and, on success, retires the
// handle: further Read/Write/Tell/Seek/Length calls return
// ErrInvalidArgument rather than panicking or operating on a closed
// backend resource, Eof reports true, and a repeated Close is a no-op
// that returns nil. On failure the handle
// remains live, matching spec.md §4.5 ("0 on error; handle remains
// live").
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	if err := h.fh.Close(); err != nil {
		handleLogger.Warn("close failed for %q: %v", h.path, err)
		return newErr("close", h.path, err)
	}

	h.closed = true
	if h.owner != nil {
		atomic.AddInt32(&h.owner.handles, -1)
	}
	if h.mode != modeRead {
		atomic.AddInt32(&h.vfs.openWriteCount, -1)
	}
	handleLogger.Trace("closed %q", h.path)
	return nil
}
