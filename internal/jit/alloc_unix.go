//go:build linux || darwin || freebsd

package jit

import (
	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MMapAllocator copies code into a private anonymous mapping. The mapping is
// created read-write, filled, and then switched to read-execute, so it is
// never writable and executable at the same time.
type MMapAllocator struct{}

// DefaultAllocator returns the allocator used by Load
func DefaultAllocator() Allocator {
	return MMapAllocator{}
}

// AllocateExec maps a fresh region holding a copy of code
func (MMapAllocator) AllocateExec(code []byte) (mmap.MMap, error) {
	m, err := mmap.MapRegion(nil, len(code), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	copy(m, code)
	if err := protectExec(m); err != nil {
		if uerr := m.Unmap(); uerr != nil {
			logger.Warn("unmap after failed mprotect", "size", len(m), "err", uerr)
		}
		return nil, errors.Wrap(err, "mprotect")
	}
	return m, nil
}

// protectExec drops write access and grants execute access
var protectExec = func(b []byte) error {
	return unix.Mprotect(b, unix.PROT_READ|unix.PROT_EXEC)
}

// Free unmaps a region returned by AllocateExec
func (MMapAllocator) Free(mem mmap.MMap) error {
	return mem.Unmap()
}
