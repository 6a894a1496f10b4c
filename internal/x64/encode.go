// Completion: 100% - Instruction encoding complete
package x64

const (
	rexW = 0x48 // REX prefix with 64-bit operand size

	modDisp32 = 0x80 // ModR/M mod=10: [base+disp32]
	modReg    = 0xC0 // ModR/M mod=11: register direct
)

// modrm combines a mode with the reg and r/m fields
func modrm(mode byte, reg, rm Register) byte {
	return mode | byte(reg)<<3 | byte(rm)
}

// Size returns the number of bytes the instruction encodes to
func (i Instruction) Size() int {
	switch i.Kind {
	case KindPush, KindPop, KindRet:
		return 1
	case KindCqo:
		return 2
	case KindMov, KindAdd, KindSub, KindIDiv:
		return 3
	case KindIMul:
		return 4
	case KindPushImm, KindJmp:
		return 5
	case KindJz:
		return 6
	case KindStore, KindLoad, KindSubImm, KindCmpImm:
		return 7
	default:
		return 0
	}
}

func (i Instruction) check() error {
	for _, r := range []Register{i.Dst, i.Src} {
		if !r.Valid() {
			return &EncodingError{Inst: i, Reason: "register number out of range"}
		}
	}
	switch i.Kind {
	case KindStore:
		if i.Dst == RSP {
			return &EncodingError{Inst: i, Reason: "rsp as base needs a SIB byte"}
		}
	case KindLoad:
		if i.Src == RSP {
			return &EncodingError{Inst: i, Reason: "rsp as base needs a SIB byte"}
		}
	}
	return nil
}

// encode writes the fixed encoding of every kind except labels and jumps,
// which need the assembler's label table.
func (bw *BufferWrapper) encode(i Instruction) error {
	if err := i.check(); err != nil {
		return err
	}

	switch i.Kind {
	case KindPushImm:
		// PUSH imm32, sign-extended to 64 bits
		bw.Write(0x68)
		bw.WriteInt32(i.Imm)

	case KindPush:
		// PUSH uses compact encoding: 0x50 + reg
		bw.Write(0x50 | byte(i.Dst))

	case KindPop:
		bw.Write(0x58 | byte(i.Dst))

	case KindStore:
		// MOV r/m64, r64
		bw.WriteBytes(rexW, 0x89, modrm(modDisp32, i.Src, i.Dst))
		bw.WriteInt32(i.Imm)

	case KindLoad:
		// MOV r64, r/m64
		bw.WriteBytes(rexW, 0x8B, modrm(modDisp32, i.Dst, i.Src))
		bw.WriteInt32(i.Imm)

	case KindMov:
		bw.WriteBytes(rexW, 0x89, modrm(modReg, i.Src, i.Dst))

	case KindAdd:
		bw.WriteBytes(rexW, 0x01, modrm(modReg, i.Src, i.Dst))

	case KindSub:
		bw.WriteBytes(rexW, 0x29, modrm(modReg, i.Src, i.Dst))

	case KindSubImm:
		// 81 /5 id
		bw.WriteBytes(rexW, 0x81, 0xE8|byte(i.Dst))
		bw.WriteInt32(i.Imm)

	case KindCmpImm:
		// 81 /7 id
		bw.WriteBytes(rexW, 0x81, 0xF8|byte(i.Dst))
		bw.WriteInt32(i.Imm)

	case KindIMul:
		// IMUL r64, r/m64 has the destination in the reg field
		bw.WriteBytes(rexW, 0x0F, 0xAF, modrm(modReg, i.Dst, i.Src))

	case KindIDiv:
		// F7 /7: signed divide rdx:rax, quotient in rax, remainder in rdx
		bw.WriteBytes(rexW, 0xF7, 0xF8|byte(i.Dst))

	case KindCqo:
		// Sign-extend rax into rdx:rax
		bw.WriteBytes(rexW, 0x99)

	case KindRet:
		bw.Write(0xC3)

	default:
		return &EncodingError{Inst: i, Reason: "not a fixed encoding"}
	}
	return nil
}
