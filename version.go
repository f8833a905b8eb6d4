package vfscore

// Version reports the library's own version, the Go analogue of
// physfs.c's PHYSFS_getLinkedVersion (spec.md §6).
type Version struct {
	Major int
	Minor int
	Patch int
}

var libraryVersion = Version{Major: 1, Minor: 0, Patch: 0}

// LinkedVersion returns the version of the vfscore library linked into
// the running binary.
func LinkedVersion() Version {
	return libraryVersion
}
