package x64

import (
	"fmt"

	"github.com/xyproto/yellowcake/internal/il"
)

// MultipleLabelDefinitionError is returned when a label is marked twice
type MultipleLabelDefinitionError struct {
	Label il.Label
}

func (e *MultipleLabelDefinitionError) Error() string {
	return fmt.Sprintf("label .L%d defined more than once", e.Label)
}

// LabelNotDefinedError is returned when a label is referenced but never marked
type LabelNotDefinedError struct {
	Label il.Label
}

func (e *LabelNotDefinedError) Error() string {
	return fmt.Sprintf("label .L%d referenced but not defined", e.Label)
}

// EncodingError is returned for an instruction the encoding table cannot express
type EncodingError struct {
	Inst   Instruction
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %q: %s", e.Inst, e.Reason)
}
