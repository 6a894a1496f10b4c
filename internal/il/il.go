// Completion: 100% - IL data model complete
package il

import (
	"fmt"
	"strings"
)

// Op identifies an IL operation
type Op uint8

const (
	OpPushInt Op = iota
	OpLoad
	OpStore
	OpDrop
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLabel
	OpJump
	OpBranchIfNot
	OpReturn
)

var opNames = [...]string{
	OpPushInt:     "push",
	OpLoad:        "load",
	OpStore:       "store",
	OpDrop:        "drop",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpDiv:         "div",
	OpLabel:       "label",
	OpJump:        "jump",
	OpBranchIfNot: "brz",
	OpReturn:      "ret",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Local is the identity of a local variable. Ids are dense, starting at 0,
// and are handed out by the frontend (see Builder).
type Local int

// Label is the identity of a jump target, unique within one compilation unit.
type Label int

// Instruction is a single IL instruction. Which operand field is meaningful
// depends on Op: Value for OpPushInt, Local for OpLoad/OpStore and Label for
// OpLabel/OpJump/OpBranchIfNot.
type Instruction struct {
	Op    Op
	Value int32
	Local Local
	Label Label
}

func PushInt(v int32) Instruction     { return Instruction{Op: OpPushInt, Value: v} }
func Load(l Local) Instruction        { return Instruction{Op: OpLoad, Local: l} }
func Store(l Local) Instruction       { return Instruction{Op: OpStore, Local: l} }
func Drop() Instruction               { return Instruction{Op: OpDrop} }
func Add() Instruction                { return Instruction{Op: OpAdd} }
func Sub() Instruction                { return Instruction{Op: OpSub} }
func Mul() Instruction                { return Instruction{Op: OpMul} }
func Div() Instruction                { return Instruction{Op: OpDiv} }
func Mark(l Label) Instruction        { return Instruction{Op: OpLabel, Label: l} }
func Jump(l Label) Instruction        { return Instruction{Op: OpJump, Label: l} }
func BranchIfNot(l Label) Instruction { return Instruction{Op: OpBranchIfNot, Label: l} }
func Return() Instruction             { return Instruction{Op: OpReturn} }

func (i Instruction) String() string {
	switch i.Op {
	case OpPushInt:
		return fmt.Sprintf("push %d", i.Value)
	case OpLoad, OpStore:
		return fmt.Sprintf("%s $%d", i.Op, i.Local)
	case OpLabel:
		return fmt.Sprintf(".L%d:", i.Label)
	case OpJump, OpBranchIfNot:
		return fmt.Sprintf("%s .L%d", i.Op, i.Label)
	default:
		return i.Op.String()
	}
}

// Function is what the frontend hands to the backend: a name, the locals in
// declaration order and the instruction stream.
type Function struct {
	Name         string
	Locals       []Local
	Instructions []Instruction
}

// String renders the function as an IL listing
func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s\n", f.Name)
	for _, l := range f.Locals {
		fmt.Fprintf(&sb, "local $%d\n", l)
	}
	for _, inst := range f.Instructions {
		if inst.Op == OpLabel {
			sb.WriteString(inst.String())
		} else {
			sb.WriteString("    ")
			sb.WriteString(inst.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
