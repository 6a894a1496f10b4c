package x64

import "strings"

// Listing renders instructions as an Intel-syntax assembly file that defines
// one global function called name.
func Listing(name string, insts []Instruction) string {
	var sb strings.Builder
	sb.WriteString("    .intel_syntax noprefix\n")
	sb.WriteString("    .global " + name + "\n")
	sb.WriteString(name + ":\n")
	for _, i := range insts {
		if i.Kind != KindLabel {
			sb.WriteString("    ")
		}
		sb.WriteString(i.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
