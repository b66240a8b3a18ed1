package io

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrFileNotOpened   = errors.New("file not opened")
	ErrMalformedFile   = errors.New("malformed file")
	ErrBytesMismatch   = errors.New("read bytes mismatch")
	ErrWrittenMismatch = errors.New("written bytes mismatch")
)

type FileReader struct {
	path   string
	file   *os.File
	opened bool

	exists bool
}

func NewFileReader(path string) *FileReader {

	_, err := os.Stat(path)

	freader := &FileReader{
		path:   path,
		exists: err == nil,
	}

	return freader
}

func (f *FileReader) Exists() bool {
	return f.exists
}

// Open opens the file for reading, or truncates it for writing.
func (f *FileReader) Open(readOnly bool) (topErr error) {

	var perm os.FileMode = 0644

	if readOnly {
		f.file, topErr = os.OpenFile(f.path, os.O_RDONLY, perm)
	} else {
		f.file, topErr = os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	}

	if topErr == nil {
		f.opened = true
		f.exists = true
	}

	return topErr
}

func (f *FileReader) Close() error {
	if !f.opened {
		return nil
	}

	f.opened = false
	return f.file.Close()
}

func (f *FileReader) Size() (int64, error) {
	if !f.opened {
		return 0, ErrFileNotOpened
	}

	info, err := f.file.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// ReadAll reads the whole file from the start.
func (f *FileReader) ReadAll() ([]byte, error) {

	size, err := f.Size()
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	if err = f.ReadAt(out, 0, int(size)); err != nil {
		return nil, fmt.Errorf("unable to read %s: %s", f.path, err.Error())
	}

	return out, nil
}

func (f *FileReader) ReadAt(out []byte, off, length int) (err error) {
	if !f.opened {
		return ErrFileNotOpened
	}

	if length == 0 {
		return nil
	}

	var readBytes int
	readBytes, err = f.file.ReadAt(out[:length], int64(off))

	if readBytes != length {
		return ErrBytesMismatch
	}

	return nil
}

func (f *FileReader) WriteAt(in []byte, off int) (err error) {
	if !f.opened {
		return ErrFileNotOpened
	}

	var writtenBytes int
	writtenBytes, err = f.file.WriteAt(in, int64(off))
	if err != nil {
		return err
	}

	if writtenBytes != len(in) {
		return ErrWrittenMismatch
	}

	return nil
}
