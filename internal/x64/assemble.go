// Completion: 100% - Two-pass assembler complete
package x64

import (
	"github.com/xyproto/yellowcake/internal/il"
)

// labelState is one entry of the label arena
type labelState struct {
	defined bool
	used    bool
	pos     int   // byte offset of the label, valid when defined
	refs    []int // offsets of rel32 placeholders that target this label
}

type assembler struct {
	out    *BufferWrapper
	labels []labelState // indexed by il.Label
}

func (a *assembler) label(i Instruction) (*labelState, error) {
	id := i.Label
	if id < 0 {
		return nil, &EncodingError{Inst: i, Reason: "negative label id"}
	}
	if int(id) >= len(a.labels) {
		grown := make([]labelState, int(id)+1)
		copy(grown, a.labels)
		a.labels = grown
	}
	st := &a.labels[id]
	st.used = true
	return st, nil
}

// emitJump writes the opcode and a zero rel32 placeholder, and queues a fixup
func (a *assembler) emitJump(i Instruction, opcode ...byte) error {
	st, err := a.label(i)
	if err != nil {
		return err
	}
	a.out.WriteBytes(opcode...)
	st.refs = append(st.refs, a.out.Len())
	a.out.WriteInt32(0)
	return nil
}

// Assemble encodes the instructions into machine code.
//
// The first pass appends the fixed encodings, records label positions and
// leaves zeroed rel32 placeholders for jumps. The second pass patches every
// placeholder with target - (placeholder offset + 4), so forward and backward
// jumps resolve the same way.
func Assemble(insts []Instruction) ([]byte, error) {
	a := &assembler{out: NewBufferWrapper(nil)}

	for _, i := range insts {
		switch i.Kind {
		case KindLabel:
			st, err := a.label(i)
			if err != nil {
				return nil, err
			}
			if st.defined {
				return nil, &MultipleLabelDefinitionError{Label: i.Label}
			}
			st.defined = true
			st.pos = a.out.Len()
			logger.Debug("label", "label", i.Label, "pos", st.pos)

		case KindJmp:
			if err := a.emitJump(i, 0xE9); err != nil {
				return nil, err
			}

		case KindJz:
			if err := a.emitJump(i, 0x0F, 0x84); err != nil {
				return nil, err
			}

		default:
			start := a.out.Len()
			if err := a.out.encode(i); err != nil {
				return nil, err
			}
			logger.Debug("emit", "pos", start, "inst", i.String(), "size", a.out.Len()-start)
		}
	}

	for id := range a.labels {
		st := &a.labels[id]
		if !st.used {
			continue
		}
		if !st.defined {
			return nil, &LabelNotDefinedError{Label: il.Label(id)}
		}
		for _, ref := range st.refs {
			rel := int32(st.pos - (ref + 4))
			a.out.Patch32(ref, rel)
			logger.Debug("patch", "label", id, "at", ref, "rel", rel)
		}
	}

	code := make([]byte, a.out.Len())
	copy(code, a.out.Bytes())
	return code, nil
}
