package vfscore

import (
	"sync"
	"sync/atomic"

	"vfscore/internal/logging"
)

var searchPathLogger = logging.GetLogger().WithPrefix("searchpath")

// searchPathEntry is the Go analogue of physfs.c's SearchDirInfo node: the
// original root path string plus the DirReader opened for it, and a live
// FileHandle counter used to refuse removal while handles are open.
type searchPathEntry struct {
	root    string
	reader  DirReader
	handles int32 // atomic
}

// SearchPath is the ordered, duplicate-tolerant list of roots consulted
// for reads (spec.md §3, §4.3). Mutation requires external exclusion from
// concurrent reads per spec.md §5; the mutex here only protects the slice
// header itself against concurrent Add/Remove/List races, not against a
// mutator racing a read — that contract is the caller's responsibility.
type SearchPath struct {
	mu      sync.RWMutex
	entries []*searchPathEntry
}

func newSearchPath() *SearchPath {
	return &SearchPath{}
}

// Add opens a DirReader for root and inserts it at the tail (append) or
// head (prepend) of the search path.
func (sp *SearchPath) Add(root string, appendToTail bool) error {
	reader, err := getDirReader(root)
	if err != nil {
		return newErr("addToSearchPath", root, err)
	}

	entry := &searchPathEntry{root: root, reader: reader}

	sp.mu.Lock()
	defer sp.mu.Unlock()
	if appendToTail {
		sp.entries = append(sp.entries, entry)
	} else {
		sp.entries = append([]*searchPathEntry{entry}, sp.entries...)
	}
	searchPathLogger.Info("added %q to search path (append=%v)", root, appendToTail)
	return nil
}

// Remove closes and removes the first entry whose original root string
// matches byte-for-byte. It refuses while any FileHandle opened through
// that reader is still live (spec.md §4.3).
func (sp *SearchPath) Remove(root string) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	for i, e := range sp.entries {
		if e.root != root {
			continue
		}
		if atomic.LoadInt32(&e.handles) > 0 {
			return newErr("removeFromSearchPath", root, ErrFilesStillOpen)
		}
		if err := e.reader.Close(); err != nil {
			return newErr("removeFromSearchPath", root, err)
		}
		sp.entries = append(sp.entries[:i:i], sp.entries[i+1:]...)
		searchPathLogger.Info("removed %q from search path", root)
		return nil
	}
	return newErr("removeFromSearchPath", root, ErrNotInSearchPath)
}

// List returns a fresh copy of the original root strings, in order
// (spec.md §4.3 "ownership transferred to caller").
func (sp *SearchPath) List() []string {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	out := make([]string, len(sp.entries))
	for i, e := range sp.entries {
		out[i] = e.root
	}
	return out
}

// snapshot returns the current entry slice without copying the entries
// themselves, for resolve.go to iterate over without holding the lock
// across backend I/O. No element within a returned slice's length is
// ever overwritten (a tail Add only writes past the current length,
// while a head Add and Remove allocate a new backing array), so this is
// safe.
func (sp *SearchPath) snapshot() []*searchPathEntry {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.entries
}

// hasOpenHandles reports whether any entry currently has a live handle,
// without closing or otherwise mutating the search path. Deinit calls
// this before closeAll so that a refusal leaves every entry untouched,
// matching the atomic-refusal contract SetWriteDir and Remove already
// follow (spec.md §4.6).
func (sp *SearchPath) hasOpenHandles() bool {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	for _, e := range sp.entries {
		if atomic.LoadInt32(&e.handles) > 0 {
			return true
		}
	}
	return false
}

// closeAll closes every reader and empties the search path. Used only
// from Deinit, which must confirm via hasOpenHandles first: closeAll
// trusts that invariant and does not re-check it, so it never leaves a
// partially-drained search path behind a failed Deinit.
func (sp *SearchPath) closeAll() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for _, e := range sp.entries {
		if err := e.reader.Close(); err != nil {
			searchPathLogger.Warn("error closing reader for %q: %v", e.root, err)
		}
	}
	sp.entries = nil
}
