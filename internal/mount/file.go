package mount

import (
	"context"
	"io"
	"os"
	"sync"

	"vfscore"
	"vfscore/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var fileLogger = logging.GetLogger().WithPrefix("mount.file")

// File is a file node resolved against the VFS search path.
type File struct {
	v    *vfscore.VFS
	path string
}

func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	a.Mode = 0644
	h, err := f.v.OpenRead(f.path)
	if err != nil {
		// Size unknown (e.g. only present in the write dir, not yet
		// flushed); report zero rather than failing Attr outright.
		return nil
	}
	defer h.Close()
	if size, err := h.Length(); err == nil {
		a.Size = uint64(size)
	}
	return nil
}

func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	flags := int(req.Flags)
	fileLogger.Debug("opening %q with flags %v", f.path, flags)

	var (
		h   *vfscore.Handle
		err error
	)
	switch {
	case flags&os.O_WRONLY != 0 || flags&os.O_RDWR != 0:
		if flags&os.O_APPEND != 0 {
			h, err = f.v.OpenAppend(f.path)
		} else {
			h, err = f.v.OpenWrite(f.path)
		}
	default:
		h, err = f.v.OpenRead(f.path)
	}
	if err != nil {
		return nil, toErrno(err)
	}

	resp.Flags |= fuse.OpenDirectIO
	return &FileHandle{h: h, path: f.path}, nil
}

func (f *File) Fsync(_ context.Context, _ *fuse.FsyncRequest) error {
	return nil
}

// FileHandle adapts a *vfscore.Handle to bazil.org/fuse's handle
// interfaces, the same wrapper role LachlanBridges-VMapFS's FileHandle
// plays over an *os.File.
type FileHandle struct {
	h    *vfscore.Handle
	path string
	mu   sync.RWMutex
}

func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fh.mu.RLock()
	defer fh.mu.RUnlock()

	if _, err := fh.h.Seek(req.Offset, io.SeekStart); err != nil {
		return toErrno(err)
	}
	buf := make([]byte, req.Size)
	n, err := fh.h.Read(buf)
	if err != nil && err != io.EOF {
		return toErrno(err)
	}
	resp.Data = buf[:n]
	return nil
}

func (fh *FileHandle) Write(_ context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	n, err := fh.h.Write(req.Data)
	if err != nil {
		return toErrno(err)
	}
	resp.Size = n
	return nil
}

func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	fileLogger.Debug("releasing %q", fh.path)
	return toErrno(fh.h.Close())
}
