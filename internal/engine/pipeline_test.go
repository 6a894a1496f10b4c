package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/xyproto/yellowcake/internal/il"
	"github.com/xyproto/yellowcake/internal/jit"
	"github.com/xyproto/yellowcake/internal/x64"
)

func requireNative(t *testing.T) {
	t.Helper()
	if !HostPlatform().CanExecute() || !jit.Supported() {
		t.Skipf("cannot execute x86-64 code on %s", HostPlatform())
	}
}

func program(name string, insts ...il.Instruction) *il.Function {
	return &il.Function{Name: name, Instructions: insts}
}

func sumTo(n int32) *il.Function {
	b := il.NewBuilder("sum")
	i := b.Local()
	s := b.Local()
	loop := b.NewLabel()
	done := b.NewLabel()
	b.Emit(
		il.PushInt(n), il.Store(i),
		il.PushInt(0), il.Store(s),
		il.Mark(loop),
		il.Load(i), il.BranchIfNot(done),
		il.Load(s), il.Load(i), il.Add(), il.Store(s),
		il.Load(i), il.PushInt(1), il.Sub(), il.Store(i),
		il.Jump(loop),
		il.Mark(done),
		il.Load(s), il.Return(),
	)
	return b.Function()
}

func TestRun(t *testing.T) {
	requireNative(t)

	b := il.NewBuilder("double")
	x := b.Local()
	b.Emit(il.PushInt(10), il.Store(x), il.Load(x), il.Load(x), il.Add(), il.Return())

	tests := []struct {
		fn       *il.Function
		expected int32
	}{
		{program("sub", il.PushInt(6), il.PushInt(2), il.Sub(), il.Return()), 4},
		{program("div", il.PushInt(7), il.PushInt(2), il.Div(), il.Return()), 3},
		{program("negdiv", il.PushInt(-7), il.PushInt(2), il.Div(), il.Return()), -3},
		{program("mul", il.PushInt(-6), il.PushInt(7), il.Mul(), il.Return()), -42},
		{program("drop", il.PushInt(1), il.PushInt(2), il.Drop(), il.Return()), 1},
		{b.Function(), 20},
		{sumTo(10), 55},
		{sumTo(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.fn.Name, func(t *testing.T) {
			got, err := Run(tt.fn)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCheckLoop(t *testing.T) {
	requireNative(t)
	got, err := Check(sumTo(100))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if got != 5050 {
		t.Errorf("expected 5050, got %d", got)
	}
}

func TestCheckRejectsDivideByZero(t *testing.T) {
	// The interpreter must stop this before any native code runs
	_, err := Check(program("f", il.PushInt(1), il.PushInt(0), il.Div(), il.Return()))
	if !errors.Is(err, il.ErrDivideByZero) {
		t.Errorf("expected ErrDivideByZero, got %v", err)
	}
}

func TestCheckRejectsDivideOverflow(t *testing.T) {
	// -2^63 / -1 raises #DE in idiv
	fn := program("f",
		il.PushInt(-0x80000000), il.PushInt(-0x80000000), il.Mul(),
		il.PushInt(2), il.Mul(),
		il.PushInt(-1), il.Div(), il.Return())
	_, err := Check(fn)
	if !errors.Is(err, il.ErrDivideOverflow) {
		t.Errorf("expected ErrDivideOverflow, got %v", err)
	}
}

func TestCheckRejectsUninitializedLocal(t *testing.T) {
	b := il.NewBuilder("f")
	x := b.Local()
	b.Emit(il.Load(x), il.Return())
	_, err := Check(b.Function())
	if !errors.Is(err, il.ErrUninitializedLocal) {
		t.Errorf("expected ErrUninitializedLocal, got %v", err)
	}
}

// randomProgram builds a straight-line program that keeps its value stack
// non-empty. Every local is stored before the body and divisors are nonzero
// constants.
func randomProgram(r *rand.Rand, name string) *il.Function {
	b := il.NewBuilder(name)
	locals := []il.Local{b.Local(), b.Local(), b.Local()}
	imm := func() int32 { return int32(r.Intn(2001) - 1000) }

	for _, l := range locals {
		b.Emit(il.PushInt(imm()), il.Store(l))
	}
	b.Emit(il.PushInt(imm()))
	depth := 1
	for n := 0; n < 40; n++ {
		switch r.Intn(7) {
		case 0:
			b.Emit(il.PushInt(imm()))
			depth++
		case 1:
			b.Emit(il.Load(locals[r.Intn(len(locals))]))
			depth++
		case 2:
			if depth > 1 {
				b.Emit(il.Store(locals[r.Intn(len(locals))]))
				depth--
			}
		case 3:
			if depth > 1 {
				b.Emit([]il.Instruction{il.Add(), il.Sub(), il.Mul()}[r.Intn(3)])
				depth--
			}
		case 4:
			d := imm()
			if d == 0 {
				d = 7
			}
			b.Emit(il.PushInt(d), il.Div())
		case 5:
			if depth > 1 {
				b.Emit(il.Drop())
				depth--
			}
		case 6:
			b.Emit(il.PushInt(imm()), il.Add())
		}
	}
	b.Emit(il.Return())
	return b.Function()
}

func TestNativeMatchesInterpreter(t *testing.T) {
	requireNative(t)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		fn := randomProgram(r, "random")
		if _, err := Check(fn); err != nil {
			t.Fatalf("program %d: %v\n%s", i, err, fn)
		}
	}
}

func TestCompileDuplicateLabel(t *testing.T) {
	fn := program("dup", il.Mark(2), il.Mark(2), il.PushInt(0), il.Return())
	code, err := Compile(fn)
	if code != nil {
		t.Errorf("expected no code, got % x", code)
	}
	var dup *x64.MultipleLabelDefinitionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected a MultipleLabelDefinitionError, got %v", err)
	}
	if dup.Label != 2 {
		t.Errorf("expected label 2, got %d", dup.Label)
	}
}

func TestCompileUndefinedLabel(t *testing.T) {
	fn := program("undef", il.Jump(4), il.PushInt(0), il.Return())
	_, err := Compile(fn)
	var undef *x64.LabelNotDefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("expected a LabelNotDefinedError, got %v", err)
	}
	if undef.Label != 4 {
		t.Errorf("expected label 4, got %d", undef.Label)
	}
	if _, err := Run(fn); err == nil {
		t.Error("Run must fail before loading anything")
	}
}

func TestCompileBytes(t *testing.T) {
	code, err := Compile(program("f", il.PushInt(6), il.PushInt(2), il.Sub(), il.Return()))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := []byte{
		0x55,             // push rbp
		0x48, 0x89, 0xe5, // mov rbp, rsp
		0x68, 0x06, 0x00, 0x00, 0x00, // push 6
		0x68, 0x02, 0x00, 0x00, 0x00, // push 2
		0x5f,             // pop rdi
		0x58,             // pop rax
		0x48, 0x29, 0xf8, // sub rax, rdi
		0x50,             // push rax
		0x58,             // pop rax
		0x48, 0x89, 0xec, // mov rsp, rbp
		0x5d, // pop rbp
		0xc3, // ret
	}
	if string(code) != string(expected) {
		t.Errorf("expected % x, got % x", expected, code)
	}
}
