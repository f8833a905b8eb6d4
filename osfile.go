package vfscore

import (
	"io"
	"os"
)

// osFileHandle adapts an *os.File to the FileHandle interface, shared by
// the native directory backend (reads) and the write-dir subsystem
// (writes/appends).
type osFileHandle struct {
	f   *os.File
	eof bool
}

func newOSFileHandle(f *os.File) *osFileHandle {
	return &osFileHandle{f: f}
}

func (h *osFileHandle) Read(p []byte) (int, error) {
	n, err := h.f.Read(p)
	if err == io.EOF {
		h.eof = true
	}
	return n, err
}

func (h *osFileHandle) Write(p []byte) (int, error) {
	return h.f.Write(p)
}

func (h *osFileHandle) Eof() bool {
	return h.eof
}

func (h *osFileHandle) Tell() (int64, error) {
	return h.f.Seek(0, io.SeekCurrent)
}

func (h *osFileHandle) Seek(offset int64, whence int) (int64, error) {
	pos, err := h.f.Seek(offset, whence)
	if err == nil {
		h.eof = false
	}
	return pos, err
}

func (h *osFileHandle) Length() (int64, error) {
	info, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (h *osFileHandle) Close() error {
	return h.f.Close()
}
