// Completion: 100% - Reference interpreter complete
package il

import (
	"errors"
	"fmt"
	"math"
)

// DefaultStepLimit bounds how many instructions Interpret executes before
// giving up on a program that never returns.
const DefaultStepLimit = 10_000_000

var (
	ErrDivideByZero       = errors.New("integer divide by zero")
	ErrDivideOverflow     = errors.New("integer divide overflow")
	ErrStackUnderflow     = errors.New("value stack underflow")
	ErrUninitializedLocal = errors.New("load of a local that was never stored")
	ErrNoReturn           = errors.New("execution ran past the last instruction")
	ErrStepLimit          = errors.New("step limit exceeded")
)

// RuntimeError reports where interpretation stopped
type RuntimeError struct {
	Function string
	Index    int
	Inst     Instruction
	Err      error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: instruction %d (%s): %v", e.Function, e.Index, e.Inst, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Interpret runs fn on a plain value stack and returns the low 32 bits of the
// returned value, sign-extended. Arithmetic is 64-bit and division truncates
// toward zero, the same as the machine code produced by the x64 backend.
func Interpret(fn *Function) (int32, error) {
	return InterpretLimit(fn, DefaultStepLimit)
}

// InterpretLimit is Interpret with an explicit step limit (0 means unlimited)
func InterpretLimit(fn *Function, limit int) (int32, error) {
	labels := make(map[Label]int)
	for i, inst := range fn.Instructions {
		if inst.Op == OpLabel {
			labels[inst.Label] = i
		}
	}
	// A frame slot holds whatever was on the machine stack until the first
	// Store, so only stored locals have a value.
	declared := make(map[Local]bool, len(fn.Locals))
	for _, l := range fn.Locals {
		declared[l] = true
	}
	slots := make(map[Local]int64, len(fn.Locals))

	var stack []int64
	pop := func() (int64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	steps := 0
	for pc := 0; pc < len(fn.Instructions); pc++ {
		inst := fn.Instructions[pc]
		fail := func(err error) (int32, error) {
			return 0, &RuntimeError{Function: fn.Name, Index: pc, Inst: inst, Err: err}
		}

		steps++
		if limit > 0 && steps > limit {
			return fail(ErrStepLimit)
		}

		switch inst.Op {
		case OpPushInt:
			stack = append(stack, int64(inst.Value))
		case OpLoad:
			if !declared[inst.Local] {
				return fail(fmt.Errorf("unknown local $%d", inst.Local))
			}
			v, ok := slots[inst.Local]
			if !ok {
				return fail(ErrUninitializedLocal)
			}
			stack = append(stack, v)
		case OpStore:
			if !declared[inst.Local] {
				return fail(fmt.Errorf("unknown local $%d", inst.Local))
			}
			v, ok := pop()
			if !ok {
				return fail(ErrStackUnderflow)
			}
			slots[inst.Local] = v
		case OpDrop:
			if _, ok := pop(); !ok {
				return fail(ErrStackUnderflow)
			}
		case OpAdd, OpSub, OpMul, OpDiv:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return fail(ErrStackUnderflow)
			}
			var r int64
			switch inst.Op {
			case OpAdd:
				r = left + right
			case OpSub:
				r = left - right
			case OpMul:
				r = left * right
			case OpDiv:
				if right == 0 {
					return fail(ErrDivideByZero)
				}
				// idiv raises #DE when the quotient does not fit
				if left == math.MinInt64 && right == -1 {
					return fail(ErrDivideOverflow)
				}
				r = left / right
			}
			stack = append(stack, r)
		case OpLabel:
		case OpJump:
			target, ok := labels[inst.Label]
			if !ok {
				return fail(fmt.Errorf("label .L%d is not defined", inst.Label))
			}
			pc = target
		case OpBranchIfNot:
			target, ok := labels[inst.Label]
			if !ok {
				return fail(fmt.Errorf("label .L%d is not defined", inst.Label))
			}
			v, ok := pop()
			if !ok {
				return fail(ErrStackUnderflow)
			}
			if v == 0 {
				pc = target
			}
		case OpReturn:
			v, ok := pop()
			if !ok {
				return fail(ErrStackUnderflow)
			}
			return int32(v), nil
		default:
			return fail(fmt.Errorf("unknown op %s", inst.Op))
		}
	}
	return 0, &RuntimeError{Function: fn.Name, Index: len(fn.Instructions), Err: ErrNoReturn}
}
