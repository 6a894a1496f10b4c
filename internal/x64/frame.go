package x64

import "github.com/xyproto/yellowcake/internal/il"

// SlotSize is the size of one local variable slot in bytes
const SlotSize = 8

// Frame tracks the stack frame layout of one function.
// Every local gets one 8-byte slot below the saved frame base, in declaration
// order: the first local lives at [rbp-8], the next at [rbp-16] and so on.
type Frame struct {
	disp []int32 // indexed by il.Local, 0 means no slot
	size int32
}

// NewFrame lays out a frame for the given locals
func NewFrame(locals []il.Local) *Frame {
	f := &Frame{}
	for _, l := range locals {
		if l < 0 {
			continue
		}
		if int(l) >= len(f.disp) {
			grown := make([]int32, int(l)+1)
			copy(grown, f.disp)
			f.disp = grown
		}
		if f.disp[l] != 0 {
			continue
		}
		f.size += SlotSize
		f.disp[l] = -f.size
	}
	return f
}

// Displacement returns the rbp-relative offset of a local
func (f *Frame) Displacement(l il.Local) (int32, bool) {
	if l < 0 || int(l) >= len(f.disp) || f.disp[l] == 0 {
		return 0, false
	}
	return f.disp[l], true
}

// Size returns the number of bytes reserved below the frame base
func (f *Frame) Size() int32 {
	return f.size
}
