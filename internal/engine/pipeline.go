// Completion: 100% - Compilation pipeline complete
package engine

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/xuperchain/log15"

	"github.com/xyproto/yellowcake/internal/il"
	"github.com/xyproto/yellowcake/internal/jit"
	"github.com/xyproto/yellowcake/internal/x64"
)

var logger = log.New("module", "engine")

// ErrCannotExecute is returned by Run when the host cannot execute x86-64 code
var ErrCannotExecute = errors.New("generated code cannot run on this host")

// Select lowers fn to machine instructions
func Select(fn *il.Function) ([]x64.Instruction, error) {
	insts, err := x64.Select(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", fn.Name)
	}
	logger.Debug("selected", "func", fn.Name, "il", len(fn.Instructions), "machine", len(insts))
	return insts, nil
}

// Compile turns fn into a self-contained machine code function body
func Compile(fn *il.Function) ([]byte, error) {
	insts, err := Select(fn)
	if err != nil {
		return nil, err
	}
	code, err := x64.Assemble(insts)
	if err != nil {
		return nil, errors.Wrapf(err, "assemble %s", fn.Name)
	}
	logger.Debug("assembled", "func", fn.Name, "bytes", len(code))
	return code, nil
}

// Listing renders fn as Intel-syntax assembly text
func Listing(fn *il.Function) (string, error) {
	insts, err := Select(fn)
	if err != nil {
		return "", err
	}
	return x64.Listing(fn.Name, insts), nil
}

// Run compiles fn, executes it in-process and returns its result. Nothing is
// loaded if compilation fails.
func Run(fn *il.Function) (int32, error) {
	if host := HostPlatform(); !host.CanExecute() || !jit.Supported() {
		return 0, errors.Wrapf(ErrCannotExecute, "host %s", host)
	}
	code, err := Compile(fn)
	if err != nil {
		return 0, err
	}
	result, err := jit.Run(code)
	if err != nil {
		return 0, errors.Wrapf(err, "run %s", fn.Name)
	}
	logger.Info("finished", "func", fn.Name, "result", result)
	return result, nil
}

// MismatchError reports that the native code and the interpreter disagree
type MismatchError struct {
	Function    string
	Native      int32
	Interpreted int32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: native result %d differs from interpreted result %d", e.Function, e.Native, e.Interpreted)
}

// Check runs fn both natively and with the reference interpreter and fails
// if the results differ. The interpreter runs first, so programs it rejects
// never execute natively: division by zero, the -2^63 / -1 overflow that idiv
// faults on, and loads of locals that were never stored (their frame slots
// hold stale stack data).
func Check(fn *il.Function) (int32, error) {
	want, err := il.Interpret(fn)
	if err != nil {
		return 0, errors.Wrap(err, "interpret")
	}
	got, err := Run(fn)
	if err != nil {
		return 0, err
	}
	if got != want {
		return got, &MismatchError{Function: fn.Name, Native: got, Interpreted: want}
	}
	return got, nil
}
