package x64

import (
	"testing"

	"github.com/xyproto/yellowcake/internal/il"
)

func TestFrameDisplacements(t *testing.T) {
	const n = 6
	locals := make([]il.Local, n)
	for i := range locals {
		locals[i] = il.Local(i)
	}
	f := NewFrame(locals)

	seen := make(map[int32]bool)
	for i, l := range locals {
		disp, ok := f.Displacement(l)
		if !ok {
			t.Fatalf("local $%d has no slot", l)
		}
		if want := int32(-8 * (i + 1)); disp != want {
			t.Errorf("local $%d: expected %d, got %d", l, want, disp)
		}
		if disp%8 != 0 {
			t.Errorf("local $%d: displacement %d is not 8-byte aligned", l, disp)
		}
		if seen[disp] {
			t.Errorf("displacement %d used twice", disp)
		}
		seen[disp] = true
	}
	if f.Size() != 8*n {
		t.Errorf("expected frame size %d, got %d", 8*n, f.Size())
	}
}

func TestFrameFollowsDeclarationOrder(t *testing.T) {
	f := NewFrame([]il.Local{3, 0, 7})
	expected := map[il.Local]int32{3: -8, 0: -16, 7: -24}
	for l, want := range expected {
		if got, _ := f.Displacement(l); got != want {
			t.Errorf("local $%d: expected %d, got %d", l, want, got)
		}
	}
	for _, l := range []il.Local{1, 2, 8, -1} {
		if _, ok := f.Displacement(l); ok {
			t.Errorf("local $%d was never declared but has a slot", l)
		}
	}
	if f.Size() != 24 {
		t.Errorf("expected frame size 24, got %d", f.Size())
	}
}

func TestEmptyFrame(t *testing.T) {
	f := NewFrame(nil)
	if f.Size() != 0 {
		t.Errorf("expected empty frame, got size %d", f.Size())
	}
}
