// Completion: 100% - Utility module complete
package x64

// Register is one of the eight legacy 64-bit general purpose registers.
// The numeric value is the 3-bit encoding used in opcodes and ModR/M bytes.
type Register uint8

const (
	RAX Register = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
)

var registerNames = [...]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi"}

func (r Register) String() string {
	if r.Valid() {
		return registerNames[r]
	}
	return "r?"
}

// Valid reports whether r fits the 3-bit encoding without a REX.B/REX.R bit
func (r Register) Valid() bool {
	return r < 8
}

// GetRegister looks up a register by name
func GetRegister(name string) (Register, bool) {
	for i, n := range registerNames {
		if n == name {
			return Register(i), true
		}
	}
	return 0, false
}
