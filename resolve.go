package vfscore

import "vfscore/internal/logging"

var resolveLogger = logging.GetLogger().WithPrefix("resolve")

// visible reports whether entry should participate in resolution for
// path: it centralizes the symlink gate (spec.md §4.2, §9 design note —
// "the check belongs in the search-path iterator ... centralize it")
// rather than scattering it across every read operation.
func (v *VFS) visible(entry *searchPathEntry, path string) bool {
	if v.AllowSymLinks() {
		return true
	}
	if entry.reader.IsSymLink(path) {
		resolveLogger.Trace("skipping %q in %q: symlink forbidden", path, entry.root)
		return false
	}
	return true
}

// OpenRead resolves path against the search path in order and opens the
// first visible match (spec.md §4.4 "Read resolution", testable property
// §8.1 "Search-path first-match").
func (v *VFS) OpenRead(path string) (*Handle, error) {
	norm, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	for _, entry := range v.searchPath.snapshot() {
		if !v.visible(entry, norm) {
			continue
		}
		if !entry.reader.Exists(norm) || entry.reader.IsDirectory(norm) {
			continue
		}
		fh, err := entry.reader.OpenRead(norm)
		if err != nil {
			return nil, newErr("openRead", path, err)
		}
		resolveLogger.Debug("opened %q for read from %q", norm, entry.root)
		return newHandle(v, entry, norm, fh, modeRead), nil
	}

	return nil, newErr("openRead", path, ErrNoSuchFile)
}

// GetRealDir returns the original search-path root string of the first
// entry that answers authoritatively for path, or "" if none does
// (spec.md §4.4).
func (v *VFS) GetRealDir(path string) (string, error) {
	norm, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	for _, entry := range v.searchPath.snapshot() {
		if !v.visible(entry, norm) {
			continue
		}
		if entry.reader.Exists(norm) {
			return entry.root, nil
		}
	}
	return "", newErr("getRealDir", path, ErrNoSuchPath)
}

// Exists reports whether path is visible through any search-path root.
func (v *VFS) Exists(path string) bool {
	norm, err := normalizePath(path)
	if err != nil {
		return false
	}
	for _, entry := range v.searchPath.snapshot() {
		if !v.visible(entry, norm) {
			continue
		}
		if entry.reader.Exists(norm) {
			return true
		}
	}
	return false
}

// IsDirectory reports whether the first root that answers for path
// resolves it to a directory.
func (v *VFS) IsDirectory(path string) bool {
	norm, err := normalizePath(path)
	if err != nil {
		return false
	}
	if norm == "" {
		return true // the VFS root is always a directory
	}
	for _, entry := range v.searchPath.snapshot() {
		if !v.visible(entry, norm) {
			continue
		}
		if entry.reader.Exists(norm) {
			return entry.reader.IsDirectory(norm)
		}
	}
	return false
}

// IsSymbolicLink reports whether the first root that answers for path is
// a symlink there, ignoring the symlink gate (the caller is explicitly
// asking about link-ness, not resolving through it).
func (v *VFS) IsSymbolicLink(path string) bool {
	norm, err := normalizePath(path)
	if err != nil {
		return false
	}
	for _, entry := range v.searchPath.snapshot() {
		if entry.reader.Exists(norm) {
			return entry.reader.IsSymLink(norm)
		}
	}
	return false
}

// EnumerateFiles merges the directory contents of path across every
// search-path root: names from an earlier root precede names first seen
// in a later root, duplicates are dropped (spec.md §4.4 "Enumeration",
// testable property §8.2).
func (v *VFS) EnumerateFiles(path string) ([]string, error) {
	norm, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []string
	found := false

	for _, entry := range v.searchPath.snapshot() {
		if !v.visible(entry, norm) {
			continue
		}
		if norm != "" && (!entry.reader.Exists(norm) || !entry.reader.IsDirectory(norm)) {
			continue
		}
		names, err := entry.reader.Enumerate(norm)
		if err != nil {
			continue
		}
		found = true
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}

	if !found {
		return nil, newErr("enumerateFiles", path, ErrNoSuchPath)
	}
	return merged, nil
}
