//go:build !unix

package io

import (
	"errors"
	"os"
)

const mmapSupported = false

func mmap(f *os.File, size int) ([]byte, error) {
	return nil, errors.New("mmap is not supported on this platform")
}

func munmap(data []byte) error {
	return nil
}
