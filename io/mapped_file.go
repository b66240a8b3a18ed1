package io

import (
	"errors"
	"os"
)

// MappedFile is a read-only memory mapping of a whole file.
type MappedFile struct {
	Data []byte
	f    *os.File
}

func MapFile(path string) (*MappedFile, error) {

	if !mmapSupported {
		return nil, errors.New("mmap is not supported on this platform")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() == 0 {
		return &MappedFile{f: f}, nil
	}

	data, err := mmap(f, int(info.Size()))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &MappedFile{Data: data, f: f}, nil
}

func (m *MappedFile) Close() error {

	if m == nil {
		return nil
	}

	var err error
	if m.Data != nil {
		err = munmap(m.Data)
		m.Data = nil
	}

	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.f = nil
	}

	return err
}
