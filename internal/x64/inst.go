// Completion: 100% - Machine instruction set complete
package x64

import (
	"fmt"

	"github.com/xyproto/yellowcake/internal/il"
)

// Kind selects the shape of a machine instruction
type Kind uint8

const (
	KindPushImm Kind = iota // push imm32
	KindPush                // push reg
	KindPop                 // pop reg
	KindStore               // mov [base+disp32], reg
	KindLoad                // mov reg, [base+disp32]
	KindMov                 // mov reg, reg
	KindAdd                 // add reg, reg
	KindSub                 // sub reg, reg
	KindSubImm              // sub reg, imm32
	KindCmpImm              // cmp reg, imm32
	KindIMul                // imul reg, reg
	KindIDiv                // idiv reg
	KindCqo                 // cqo
	KindLabel               // label marker, no bytes
	KindJmp                 // jmp rel32
	KindJz                  // jz rel32
	KindRet                 // ret
)

// Instruction is a single x86-64 instruction from the subset the backend uses.
//
// Operand use by Kind:
//
//	KindPush, KindPop, KindIDiv: Dst
//	KindStore:                   [Dst+Imm], Src
//	KindLoad:                    Dst, [Src+Imm]
//	KindMov, KindAdd, KindSub, KindIMul: Dst, Src
//	KindSubImm, KindCmpImm:      Dst, Imm
//	KindPushImm:                 Imm
//	KindLabel, KindJmp, KindJz:  Label
type Instruction struct {
	Kind  Kind
	Dst   Register
	Src   Register
	Imm   int32
	Label il.Label
}

func PushImm(v int32) Instruction { return Instruction{Kind: KindPushImm, Imm: v} }
func Push(r Register) Instruction { return Instruction{Kind: KindPush, Dst: r} }
func Pop(r Register) Instruction  { return Instruction{Kind: KindPop, Dst: r} }

// Store writes src to the memory at base+disp
func Store(base Register, disp int32, src Register) Instruction {
	return Instruction{Kind: KindStore, Dst: base, Imm: disp, Src: src}
}

// Load reads the memory at base+disp into dst
func Load(dst, base Register, disp int32) Instruction {
	return Instruction{Kind: KindLoad, Dst: dst, Src: base, Imm: disp}
}

func Mov(dst, src Register) Instruction { return Instruction{Kind: KindMov, Dst: dst, Src: src} }
func Add(dst, src Register) Instruction { return Instruction{Kind: KindAdd, Dst: dst, Src: src} }
func Sub(dst, src Register) Instruction { return Instruction{Kind: KindSub, Dst: dst, Src: src} }
func SubImm(dst Register, v int32) Instruction {
	return Instruction{Kind: KindSubImm, Dst: dst, Imm: v}
}
func CmpImm(r Register, v int32) Instruction { return Instruction{Kind: KindCmpImm, Dst: r, Imm: v} }
func IMul(dst, src Register) Instruction     { return Instruction{Kind: KindIMul, Dst: dst, Src: src} }
func IDiv(r Register) Instruction            { return Instruction{Kind: KindIDiv, Dst: r} }
func Cqo() Instruction                       { return Instruction{Kind: KindCqo} }
func Mark(l il.Label) Instruction            { return Instruction{Kind: KindLabel, Label: l} }
func Jmp(l il.Label) Instruction             { return Instruction{Kind: KindJmp, Label: l} }
func Jz(l il.Label) Instruction              { return Instruction{Kind: KindJz, Label: l} }
func Ret() Instruction                       { return Instruction{Kind: KindRet} }

func memOperand(base Register, disp int32) string {
	if disp < 0 {
		return fmt.Sprintf("[%s%d]", base, disp)
	}
	return fmt.Sprintf("[%s+%d]", base, disp)
}

// String renders the instruction in Intel syntax
func (i Instruction) String() string {
	switch i.Kind {
	case KindPushImm:
		return fmt.Sprintf("push %d", i.Imm)
	case KindPush:
		return fmt.Sprintf("push %s", i.Dst)
	case KindPop:
		return fmt.Sprintf("pop %s", i.Dst)
	case KindStore:
		return fmt.Sprintf("mov %s, %s", memOperand(i.Dst, i.Imm), i.Src)
	case KindLoad:
		return fmt.Sprintf("mov %s, %s", i.Dst, memOperand(i.Src, i.Imm))
	case KindMov:
		return fmt.Sprintf("mov %s, %s", i.Dst, i.Src)
	case KindAdd:
		return fmt.Sprintf("add %s, %s", i.Dst, i.Src)
	case KindSub:
		return fmt.Sprintf("sub %s, %s", i.Dst, i.Src)
	case KindSubImm:
		return fmt.Sprintf("sub %s, %d", i.Dst, i.Imm)
	case KindCmpImm:
		return fmt.Sprintf("cmp %s, %d", i.Dst, i.Imm)
	case KindIMul:
		return fmt.Sprintf("imul %s, %s", i.Dst, i.Src)
	case KindIDiv:
		return fmt.Sprintf("idiv %s", i.Dst)
	case KindCqo:
		return "cqo"
	case KindLabel:
		return fmt.Sprintf(".L%d:", i.Label)
	case KindJmp:
		return fmt.Sprintf("jmp .L%d", i.Label)
	case KindJz:
		return fmt.Sprintf("jz .L%d", i.Label)
	case KindRet:
		return "ret"
	default:
		return fmt.Sprintf("kind(%d)", uint8(i.Kind))
	}
}
