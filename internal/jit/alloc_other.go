//go:build !(linux || darwin || freebsd)

package jit

import mmap "github.com/edsrzf/mmap-go"

type unsupportedAllocator struct{}

// DefaultAllocator returns the allocator used by Load
func DefaultAllocator() Allocator {
	return unsupportedAllocator{}
}

func (unsupportedAllocator) AllocateExec([]byte) (mmap.MMap, error) {
	return nil, ErrUnsupported
}

func (unsupportedAllocator) Free(mmap.MMap) error {
	return nil
}
