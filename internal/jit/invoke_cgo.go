//go:build cgo && amd64 && (linux || darwin || freebsd)

package jit

/*
#include <stdint.h>

typedef int32_t (*yc_entry_t)(void);

static int32_t yc_invoke_i32(void *entry) {
	return ((yc_entry_t)entry)();
}
*/
import "C"

import "unsafe"

const nativeSupported = true

// invoke calls entry as int32_t (*)(void). The call goes through cgo, so the
// generated code runs on the thread's system stack, not a goroutine stack.
func invoke(entry unsafe.Pointer) int32 {
	return int32(C.yc_invoke_i32(entry))
}
