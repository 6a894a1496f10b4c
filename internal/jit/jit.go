// Completion: 100% - JIT loader complete
package jit

import (
	"fmt"
	"runtime"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	log "github.com/xuperchain/log15"
)

var logger = log.New("module", "jit")

var (
	ErrUnsupported = errors.New("jit: native execution is not supported on this platform")
	ErrReleased    = errors.New("jit: function has been released")
	ErrEmptyCode   = errors.New("jit: no code to load")
)

// Allocator hands out executable copies of machine code. AllocateExec must
// return memory that is readable and executable but no longer writable.
type Allocator interface {
	AllocateExec(code []byte) (mmap.MMap, error)
	Free(mem mmap.MMap) error
}

// Function is machine code mapped into executable memory. The code must be a
// complete function taking no arguments and returning an int32 in eax.
//
// A Function owns its mapping until Release is called. It is not safe for
// concurrent use.
type Function struct {
	alloc Allocator
	mem   mmap.MMap
}

// Supported reports whether this build can execute generated code
func Supported() bool {
	return nativeSupported
}

// Load maps code with the default allocator
func Load(code []byte) (*Function, error) {
	if !nativeSupported {
		return nil, ErrUnsupported
	}
	return LoadWith(DefaultAllocator(), code)
}

// LoadWith maps code using alloc
func LoadWith(alloc Allocator, code []byte) (*Function, error) {
	if len(code) == 0 {
		return nil, ErrEmptyCode
	}
	mem, err := alloc.AllocateExec(code)
	if err != nil {
		return nil, errors.Wrap(err, "jit: map executable memory")
	}
	f := &Function{alloc: alloc, mem: mem}
	// A Function dropped without Release still gives its mapping back
	runtime.SetFinalizer(f, (*Function).Release)
	logger.Debug("loaded", "size", len(code), "addr", fmt.Sprintf("%p", unsafe.Pointer(&mem[0])))
	return f, nil
}

// Size returns the number of mapped code bytes, or 0 after Release
func (f *Function) Size() int {
	return len(f.mem)
}

// Execute calls the function on the current thread and blocks until it
// returns. Faults raised by the code itself, such as a division by zero,
// are not caught.
func (f *Function) Execute() (int32, error) {
	if f.mem == nil {
		return 0, ErrReleased
	}
	if !nativeSupported {
		return 0, ErrUnsupported
	}
	result := invoke(unsafe.Pointer(&f.mem[0]))
	logger.Debug("executed", "result", result)
	return result, nil
}

// Release unmaps the code. Only the first call does anything.
func (f *Function) Release() error {
	if f.mem == nil {
		return nil
	}
	mem := f.mem
	f.mem = nil
	runtime.SetFinalizer(f, nil)
	if err := f.alloc.Free(mem); err != nil {
		return errors.Wrap(err, "jit: unmap")
	}
	logger.Debug("released", "size", len(mem))
	return nil
}

// Run loads code, executes it once and releases it on every path
func Run(code []byte) (result int32, err error) {
	f, err := Load(code)
	if err != nil {
		return 0, err
	}
	defer func() {
		if rerr := f.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return f.Execute()
}
