// Completion: 100% - Instruction selection complete
package x64

import (
	"fmt"

	"github.com/xyproto/yellowcake/internal/il"
)

// Registers with a fixed role in the generated code
const (
	scratch    = RAX // left operand, loaded/stored values, return value
	rightOp    = RDI // right operand of binary operations
	frameBase  = RBP
	stackPoint = RSP
)

// Select lowers a function into machine instructions.
//
// The generated function uses the machine stack as the IL value stack. It saves
// the caller's frame base, reserves one slot per local and on Return pops the
// result into rax, restores rsp and rbp and returns.
func Select(fn *il.Function) ([]Instruction, error) {
	frame := NewFrame(fn.Locals)

	out := make([]Instruction, 0, 3+len(fn.Instructions)*4)
	out = append(out, Push(frameBase), Mov(frameBase, stackPoint))
	if frame.Size() > 0 {
		out = append(out, SubImm(stackPoint, frame.Size()))
	}

	for idx, inst := range fn.Instructions {
		switch inst.Op {
		case il.OpPushInt:
			out = append(out, PushImm(inst.Value))

		case il.OpLoad, il.OpStore:
			disp, ok := frame.Displacement(inst.Local)
			if !ok {
				return nil, fmt.Errorf("%s: instruction %d: local $%d has no frame slot", fn.Name, idx, inst.Local)
			}
			if inst.Op == il.OpLoad {
				out = append(out, Load(scratch, frameBase, disp), Push(scratch))
			} else {
				out = append(out, Pop(scratch), Store(frameBase, disp, scratch))
			}

		case il.OpDrop:
			out = append(out, Pop(scratch))

		case il.OpAdd:
			out = append(out, Pop(rightOp), Pop(scratch), Add(scratch, rightOp), Push(scratch))

		case il.OpSub:
			out = append(out, Pop(rightOp), Pop(scratch), Sub(scratch, rightOp), Push(scratch))

		case il.OpMul:
			out = append(out, Pop(rightOp), Pop(scratch), IMul(scratch, rightOp), Push(scratch))

		case il.OpDiv:
			// idiv divides rdx:rax; rdx is clobbered with the remainder
			out = append(out, Pop(rightOp), Pop(scratch), Cqo(), IDiv(rightOp), Push(scratch))

		case il.OpLabel:
			out = append(out, Mark(inst.Label))

		case il.OpJump:
			out = append(out, Jmp(inst.Label))

		case il.OpBranchIfNot:
			out = append(out, Pop(scratch), CmpImm(scratch, 0), Jz(inst.Label))

		case il.OpReturn:
			out = append(out, Pop(scratch), Mov(stackPoint, frameBase), Pop(frameBase), Ret())

		default:
			return nil, fmt.Errorf("%s: instruction %d: unknown op %s", fn.Name, idx, inst.Op)
		}
	}
	return out, nil
}
