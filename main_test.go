package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xyproto/yellowcake/internal/engine"
	"github.com/xyproto/yellowcake/internal/jit"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := Config{LogFormat: "logfmt"}
	cmd := newRootCommand(&cfg)
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInterpCommand(t *testing.T) {
	out, err := execute(t, "", "interp", "testdata/sum.il")
	if err != nil {
		t.Fatalf("interp failed: %v", err)
	}
	if strings.TrimSpace(out) != "55" {
		t.Errorf("expected 55, got %q", out)
	}
}

func TestAsmCommand(t *testing.T) {
	out, err := execute(t, "", "asm", "testdata/sum.il")
	if err != nil {
		t.Fatalf("asm failed: %v", err)
	}
	for _, want := range []string{".global sum\n", "sum:\n", "    sub rsp, 16\n", ".L0:\n", "    jz .L1\n", "    ret\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in listing:\n%s", want, out)
		}
	}
}

func TestHexCommandFromStdin(t *testing.T) {
	out, err := execute(t, "push 42\nret\n", "hex", "-")
	if err != nil {
		t.Fatalf("hex failed: %v", err)
	}
	// push rbp; mov rbp, rsp; push 42; pop rax; mov rsp, rbp; pop rbp; ret
	if want := "554889e5682a000000584889ec5dc3"; strings.TrimSpace(out) != want {
		t.Errorf("expected %s, got %q", want, out)
	}
}

func TestEntryOverride(t *testing.T) {
	out, err := execute(t, "", "--entry", "total", "asm", "testdata/sum.il")
	if err != nil {
		t.Fatalf("asm failed: %v", err)
	}
	if !strings.Contains(out, ".global total\n") {
		t.Errorf("entry name was not applied:\n%s", out)
	}
}

func TestRunCommand(t *testing.T) {
	if !engine.HostPlatform().CanExecute() || !jit.Supported() {
		t.Skip("native execution not supported")
	}
	out, err := execute(t, "", "run", "--check", "testdata/sum.il")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.TrimSpace(out) != "55" {
		t.Errorf("expected 55, got %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	if _, err := execute(t, "retn\n", "interp", "-"); err == nil || !strings.Contains(err.Error(), `did you mean "ret"?`) {
		t.Errorf("expected a suggestion, got %v", err)
	}
	if _, err := execute(t, "", "--log-format", "xml", "interp", "testdata/sum.il"); err == nil {
		t.Error("expected an error for an unknown log format")
	}
	if _, err := execute(t, "", "asm", "testdata/missing.il"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
