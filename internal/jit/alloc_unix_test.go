//go:build linux || darwin || freebsd

package jit

import (
	"errors"
	"testing"
)

func TestAllocateExecProtectFailure(t *testing.T) {
	denied := errors.New("permission denied")
	saved := protectExec
	protectExec = func([]byte) error { return denied }
	defer func() { protectExec = saved }()

	mem, err := MMapAllocator{}.AllocateExec(return42)
	if !errors.Is(err, denied) {
		t.Fatalf("expected the mprotect error, got %v", err)
	}
	if mem != nil {
		t.Errorf("expected no mapping after a failed mprotect, got %d bytes", len(mem))
	}
}
