package vfscore

import "vfscore/internal/platform"

// defaultVFS is the process-global instance the top-level functions below
// operate on, for applications that want exactly one VFS per process and
// a call style matching the original C API (spec.md §6's stable public
// operations list is phrased as free functions, not methods). Anything
// needing more than one VFS instance should use New directly instead.
var defaultVFS = New(platform.Default())

// Default returns the process-global VFS instance.
func Default() *VFS { return defaultVFS }

func Init(arg0 string) error                             { return defaultVFS.Init(arg0) }
func Deinit() error                                      { return defaultVFS.Deinit() }
func Initialized() bool                                  { return defaultVFS.Initialized() }
func BaseDir() string                                    { return defaultVFS.BaseDir() }
func UserDir() string                                    { return defaultVFS.UserDir() }
func WriteDir() string                                   { return defaultVFS.WriteDir() }
func CdRomDirs() []string                                { return defaultVFS.CdRomDirs() }
func SetWriteDir(path string) error                      { return defaultVFS.SetWriteDir(path) }
func PermitSymbolicLinks(allow bool)                     { defaultVFS.PermitSymbolicLinks(allow) }
func GetSearchPath() []string                            { return defaultVFS.GetSearchPath() }
func Mkdir(path string) error                            { return defaultVFS.Mkdir(path) }
func Delete(path string) error                           { return defaultVFS.Delete(path) }
func GetRealDir(path string) (string, error)             { return defaultVFS.GetRealDir(path) }
func EnumerateFiles(path string) ([]string, error)       { return defaultVFS.EnumerateFiles(path) }
func Exists(path string) bool                            { return defaultVFS.Exists(path) }
func IsDirectory(path string) bool                       { return defaultVFS.IsDirectory(path) }
func IsSymbolicLink(path string) bool                    { return defaultVFS.IsSymbolicLink(path) }
func OpenRead(path string) (*Handle, error)              { return defaultVFS.OpenRead(path) }
func OpenWrite(path string) (*Handle, error)             { return defaultVFS.OpenWrite(path) }
func OpenAppend(path string) (*Handle, error)            { return defaultVFS.OpenAppend(path) }

func AddToSearchPath(root string, appendToTail bool) error {
	return defaultVFS.AddToSearchPath(root, appendToTail)
}

func RemoveFromSearchPath(root string) error {
	return defaultVFS.RemoveFromSearchPath(root)
}
