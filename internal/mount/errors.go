// Package mount exposes a *vfscore.VFS as a real, mountable filesystem
// via bazil.org/fuse. It is adapted from LachlanBridges-VMapFS's
// internal/fs package (Dir, File, FileHandle, and the *Error ->
// syscall.Errno translator), re-pointed at vfscore's search-path and
// write-dir semantics instead of the teacher's single-source path
// mapper.
package mount

import (
	"errors"
	"syscall"

	"vfscore"
)

// toErrno converts a vfscore error (including *vfscore.OpError-wrapped
// sentinels) into the syscall errno bazil.org/fuse expects, the same
// translation role LachlanBridges-VMapFS's ToFuseError plays for its own
// four sentinels, generalized to the full taxonomy.
func toErrno(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, vfscore.ErrNoSuchFile), errors.Is(err, vfscore.ErrNoSuchPath):
		return syscall.ENOENT
	case errors.Is(err, vfscore.ErrInvalidPath), errors.Is(err, vfscore.ErrInvalidArgument):
		return syscall.EINVAL
	case errors.Is(err, vfscore.ErrNotADir):
		return syscall.ENOTDIR
	case errors.Is(err, vfscore.ErrNotAFile):
		return syscall.EISDIR
	case errors.Is(err, vfscore.ErrNoWriteDir):
		return syscall.EROFS
	case errors.Is(err, vfscore.ErrSymlinkForbidden):
		return syscall.ENOENT
	case errors.Is(err, vfscore.ErrNotSupported):
		return syscall.ENOSYS
	case errors.Is(err, vfscore.ErrNotInSearchPath):
		return syscall.ENOENT
	default:
		return syscall.EIO
	}
}
