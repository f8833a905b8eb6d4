// Package platform implements the host-specific primitives spec.md §2
// item 1 describes as an external collaborator: directory separator,
// base/user directory discovery, removable-media enumeration,
// case-insensitive compare, native mkdir-p, and native remove. The core
// VFS package depends only on the Platform interface; this package
// supplies the one production implementation, generalized from the
// environment-variable-driven setup LachlanBridges-VMapFS's NewVMapFS
// performs for UID/GID.
package platform

import (
	"os"
	"path/filepath"
	"strings"

	"vfscore/internal/logging"

	"golang.org/x/sys/unix"
)

var logger = logging.GetLogger().WithPrefix("platform")

// Platform is the set of host primitives the core VFS needs but cannot
// portably implement itself.
type Platform interface {
	// Separator is the platform's native path separator.
	Separator() string
	// BaseDir derives the application's base directory from argv[0].
	BaseDir(arg0 string) (string, error)
	// UserDir returns the current user's home directory.
	UserDir() (string, error)
	// RemovableMediaDirs lists currently mounted removable-media roots
	// (optical and USB volumes; this implementation recognizes ISO9660,
	// UDF and VFAT mounts only).
	RemovableMediaDirs() []string
	// CaseInsensitiveEqual reports whether a and b are equal ignoring
	// case, for hosts whose filesystem is case-insensitive.
	CaseInsensitiveEqual(a, b string) bool
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
	// Remove removes a single file or empty directory.
	Remove(path string) error
}

type unixPlatform struct{}

// Default returns the production Platform implementation for
// POSIX-like hosts (Linux, macOS, BSD).
func Default() Platform {
	return unixPlatform{}
}

func (unixPlatform) Separator() string {
	return string(os.PathSeparator)
}

func (unixPlatform) BaseDir(arg0 string) (string, error) {
	abs, err := filepath.Abs(arg0)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	logger.Debug("base dir for %q resolved to %q", arg0, abs)
	return abs, nil
}

func (unixPlatform) UserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	logger.Debug("user dir resolved to %q", home)
	return home, nil
}

// Filesystem type magic numbers reported by statfs(2) on Linux for
// removable optical/USB media, per statfs(2) and the kernel's magic.h.
const (
	fsTypeISO9660 = 0x9660
	fsTypeUDF     = 0x15013346
	fsTypeMSDOS   = 0x4d44 // vfat/msdos, the common format for USB sticks
)

// removableFSTypes maps each magic number to a human label purely for
// logging.
var removableFSTypes = map[int64]string{
	fsTypeISO9660: "iso9660",
	fsTypeUDF:     "udf",
	fsTypeMSDOS:   "vfat",
}

func (unixPlatform) RemovableMediaDirs() []string {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		logger.Debug("no /proc/mounts available: %v", err)
		return nil
	}

	var dirs []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mountPoint := fields[1]

		var st unix.Statfs_t
		if err := unix.Statfs(mountPoint, &st); err != nil {
			continue
		}
		if label, ok := removableFSTypes[int64(st.Type)]; ok {
			logger.Debug("found removable media %q (%s)", mountPoint, label)
			dirs = append(dirs, mountPoint)
		}
	}
	return dirs
}

func (unixPlatform) CaseInsensitiveEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (unixPlatform) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (unixPlatform) Remove(path string) error {
	return os.Remove(path)
}
