package vfscore

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"vfscore/internal/logging"
)

var errLogger = logging.GetLogger().WithPrefix("errchan")

// ErrCode identifies one of the canonical error categories a core
// operation can fail with.
type ErrCode string

const (
	ErrCodeIsInitialized      ErrCode = "IS_INITIALIZED"
	ErrCodeNotInitialized     ErrCode = "NOT_INITIALIZED"
	ErrCodeInvalidArgument    ErrCode = "INVALID_ARGUMENT"
	ErrCodeInvalidPath        ErrCode = "INVALID_PATH"
	ErrCodeOutOfMemory        ErrCode = "OUT_OF_MEMORY"
	ErrCodeFilesStillOpen     ErrCode = "FILES_STILL_OPEN"
	ErrCodeFilesOpenWrite     ErrCode = "FILES_OPEN_WRITE"
	ErrCodeNoWriteDir         ErrCode = "NO_WRITE_DIR"
	ErrCodeNoDirCreate        ErrCode = "NO_DIR_CREATE"
	ErrCodeNoSuchPath         ErrCode = "NO_SUCH_PATH"
	ErrCodeNoSuchFile         ErrCode = "NO_SUCH_FILE"
	ErrCodeNotADir            ErrCode = "NOT_A_DIR"
	ErrCodeNotAFile           ErrCode = "NOT_A_FILE"
	ErrCodeNotAnArchive       ErrCode = "NOT_AN_ARCHIVE"
	ErrCodeUnsupportedArchive ErrCode = "UNSUPPORTED_ARCHIVE"
	ErrCodeNotInSearchPath    ErrCode = "NOT_IN_SEARCH_PATH"
	ErrCodeNotSupported       ErrCode = "NOT_SUPPORTED"
	ErrCodePastEOF            ErrCode = "PAST_EOF"
	ErrCodeCorrupt            ErrCode = "CORRUPT"
	ErrCodeSymlinkForbidden   ErrCode = "SYMLINK_FORBIDDEN"
	ErrCodeIOError            ErrCode = "IO_ERROR"
)

// Sentinel errors for the canonical taxonomy (spec.md §7). Core functions
// wrap these in *OpError; callers compare with errors.Is.
var (
	ErrIsInitialized      = errors.New(string(ErrCodeIsInitialized))
	ErrNotInitialized     = errors.New(string(ErrCodeNotInitialized))
	ErrInvalidArgument    = errors.New(string(ErrCodeInvalidArgument))
	ErrInvalidPath        = errors.New(string(ErrCodeInvalidPath))
	ErrOutOfMemory        = errors.New(string(ErrCodeOutOfMemory))
	ErrFilesStillOpen     = errors.New(string(ErrCodeFilesStillOpen))
	ErrFilesOpenWrite     = errors.New(string(ErrCodeFilesOpenWrite))
	ErrNoWriteDir         = errors.New(string(ErrCodeNoWriteDir))
	ErrNoDirCreate        = errors.New(string(ErrCodeNoDirCreate))
	ErrNoSuchPath         = errors.New(string(ErrCodeNoSuchPath))
	ErrNoSuchFile         = errors.New(string(ErrCodeNoSuchFile))
	ErrNotADir            = errors.New(string(ErrCodeNotADir))
	ErrNotAFile           = errors.New(string(ErrCodeNotAFile))
	ErrNotAnArchive       = errors.New(string(ErrCodeNotAnArchive))
	ErrUnsupportedArchive = errors.New(string(ErrCodeUnsupportedArchive))
	ErrNotInSearchPath    = errors.New(string(ErrCodeNotInSearchPath))
	ErrNotSupported       = errors.New(string(ErrCodeNotSupported))
	ErrPastEOF            = errors.New(string(ErrCodePastEOF))
	ErrCorrupt            = errors.New(string(ErrCodeCorrupt))
	ErrSymlinkForbidden   = errors.New(string(ErrCodeSymlinkForbidden))
	ErrIOError            = errors.New(string(ErrCodeIOError))
)

// OpError wraps a failing operation with the path it was acting on and the
// canonical sentinel (or platform error) that caused it. It is the Go
// analogue of the teacher's fs.Error, widened to the full taxonomy.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vfscore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("vfscore: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// newErr builds an *OpError, latches its message on the calling goroutine's
// error slot, and returns it. Every failing core function funnels through
// here so that getLastError/LastError always reflects the most recent
// failure on the calling goroutine, matching spec.md §4.1.
func newErr(op, path string, cause error) *OpError {
	oe := &OpError{Op: op, Path: path, Err: cause}
	setError(oe.Error())
	return oe
}

// errSlot is the per-goroutine latched message slot (spec.md §3 ErrSlot).
type errSlot struct {
	message string
	present bool
}

const maxErrMessageLen = 79

var (
	errSlotsMu sync.Mutex
	errSlots   = map[int64]*errSlot{}
)

// setError finds or lazily creates the calling goroutine's slot and
// latches msg (truncated to 79 bytes, per spec.md §4.1's 80-byte buffer).
// Only slot lookup/insertion is synchronized; this mirrors physfs.c's
// findErrorForCurrentThread + malloc-on-miss shape, with insertion
// serialized by a mutex instead of being racy as in the original source.
func setError(msg string) {
	if len(msg) > maxErrMessageLen {
		msg = msg[:maxErrMessageLen]
	}
	id := currentGoroutineID()

	errSlotsMu.Lock()
	slot, ok := errSlots[id]
	if !ok {
		slot = &errSlot{}
		errSlots[id] = slot
	}
	errSlotsMu.Unlock()

	slot.message = msg
	slot.present = true
}

// LastError returns and clears the calling goroutine's latched error
// message. The second return is false if no error is latched ("absent"
// in spec.md §4.1's terms).
func LastError() (string, bool) {
	id := currentGoroutineID()

	errSlotsMu.Lock()
	slot, ok := errSlots[id]
	errSlotsMu.Unlock()

	if !ok || !slot.present {
		return "", false
	}
	slot.present = false
	return slot.message, true
}

// freeErrorMessages discards every latched slot. Invoked only from Deinit,
// per spec.md §4.1.
func freeErrorMessages() {
	errSlotsMu.Lock()
	defer errSlotsMu.Unlock()
	errLogger.Debug("freeing %d error slot(s)", len(errSlots))
	errSlots = map[int64]*errSlot{}
}

// currentGoroutineID recovers a goroutine-scoped identity by parsing the
// "goroutine N [...]" header runtime.Stack always emits first. Go exposes
// no native thread-local storage and no OS-thread identity meaningfully
// tied to the concurrency unit applications actually use, so this is the
// closest analogue to the "native thread-local facility" spec.md §9's
// design note calls for — see DESIGN.md's Open Questions section.
func currentGoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]

	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}

	var id int64
	for _, c := range b[:end] {
		if c < '0' || c > '9' {
			return 0
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
