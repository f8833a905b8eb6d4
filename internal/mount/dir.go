package mount

import (
	"context"
	"os"
	"strings"
	"syscall"

	"vfscore"
	"vfscore/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var dirLogger = logging.GetLogger().WithPrefix("mount.dir")

// Root implements fusefs.FS, handing out the VFS root directory node.
type Root struct {
	v *vfscore.VFS
}

// New wraps v for FUSE mounting.
func New(v *vfscore.VFS) *Root {
	return &Root{v: v}
}

func (r *Root) Root() (fusefs.Node, error) {
	return &Dir{v: r.v, path: ""}, nil
}

// Dir is a directory node resolved against the VFS search path; every
// operation dispatches through vfscore's own resolution and write-dir
// logic rather than touching a filesystem directly.
type Dir struct {
	v    *vfscore.VFS
	path string // normalized logical path, "" for root
}

func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0755
	return nil
}

func (d *Dir) child(name string) string {
	if d.path == "" {
		return name
	}
	return d.path + "/" + name
}

func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	childPath := d.child(name)
	dirLogger.Debug("lookup %q in %q", name, d.path)

	if !d.v.Exists(childPath) {
		return nil, syscall.ENOENT
	}
	if d.v.IsDirectory(childPath) {
		return &Dir{v: d.v, path: childPath}, nil
	}
	return &File{v: d.v, path: childPath}, nil
}

func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	names, err := d.v.EnumerateFiles(d.path)
	if err != nil {
		return nil, toErrno(err)
	}

	entries := make([]fuse.Dirent, 0, len(names))
	for _, name := range names {
		childPath := d.child(name)
		typ := fuse.DT_File
		if d.v.IsDirectory(childPath) {
			typ = fuse.DT_Dir
		}
		entries = append(entries, fuse.Dirent{Name: name, Type: typ})
	}
	return entries, nil
}

func (d *Dir) Mkdir(_ context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	childPath := d.child(req.Name)
	if err := d.v.Mkdir(childPath); err != nil {
		return nil, toErrno(err)
	}
	return &Dir{v: d.v, path: childPath}, nil
}

func (d *Dir) Remove(_ context.Context, req *fuse.RemoveRequest) error {
	childPath := d.child(req.Name)
	if err := d.v.Delete(childPath); err != nil {
		return toErrno(err)
	}
	return nil
}

// path, with any VFS root prefix stripped for display purposes only.
func (d *Dir) String() string {
	return strings.TrimPrefix(d.path, "/")
}
