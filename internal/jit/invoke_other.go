//go:build !(cgo && amd64 && (linux || darwin || freebsd))

package jit

import "unsafe"

const nativeSupported = false

func invoke(unsafe.Pointer) int32 {
	panic(ErrUnsupported)
}
