// Completion: 100% - IL listing reader complete
package il

import (
	"bufio"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// listing.go - textual IL listings
//
// A listing holds one function, one instruction per line:
//
//	func main
//	local x
//	    push 10
//	    store x
//	loop:
//	    load x
//	    brz done
//	    jump loop
//	done:
//	    ret
//
// Local and label names are mapped to dense ids in order of first appearance.
// Everything after '#' or ';' is a comment. The output of Function.String
// reads back to an equivalent function.

// SyntaxError reports a malformed listing line
type SyntaxError struct {
	File    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

type listingReader struct {
	file   string
	line   int
	b      *Builder
	locals map[string]Local
	labels map[string]Label
}

// Parse reads a listing. file is only used in error messages.
func Parse(file, src string) (*Function, error) {
	r := &listingReader{
		file:   file,
		b:      NewBuilder("main"),
		locals: make(map[string]Local),
		labels: make(map[string]Label),
	}

	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		r.line++
		if err := r.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return r.b.Function(), nil
}

func (r *listingReader) errorf(format string, args ...any) error {
	return &SyntaxError{File: r.file, Line: r.line, Message: fmt.Sprintf(format, args...)}
}

func (r *listingReader) label(name string) Label {
	if l, ok := r.labels[name]; ok {
		return l
	}
	l := r.b.NewLabel()
	r.labels[name] = l
	return l
}

var mnemonics = []string{
	"func", "local", "push", "load", "store", "drop", "add", "sub", "mul", "div",
	"label", "jump", "jmp", "brz", "branchifnot", "ret", "return",
}

func (r *listingReader) local(name string) (Local, error) {
	if l, ok := r.locals[name]; ok {
		return l, nil
	}
	names := make([]string, 0, len(r.locals))
	for n := range r.locals {
		names = append(names, n)
	}
	if s := findSimilar(name, names, 1); len(s) > 0 {
		return 0, r.errorf("undeclared local %q (did you mean %q?)", name, s[0])
	}
	return 0, r.errorf("undeclared local %q", name)
}

func (r *listingReader) parseLine(line string) error {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	head := strings.ToLower(fields[0])
	if len(fields) == 1 && strings.HasSuffix(head, ":") && len(head) > 1 {
		r.b.Emit(Mark(r.label(strings.TrimSuffix(fields[0], ":"))))
		return nil
	}

	if !slices.Contains(mnemonics, head) {
		if s := findSimilar(head, mnemonics, 1); len(s) > 0 {
			return r.errorf("unknown instruction %q (did you mean %q?)", fields[0], s[0])
		}
		return r.errorf("unknown instruction %q", fields[0])
	}

	switch head {
	case "drop", "add", "sub", "mul", "div", "ret", "return":
		if len(fields) != 1 {
			return r.errorf("%s takes no operand", head)
		}
	default:
		if len(fields) != 2 {
			return r.errorf("%s takes exactly one operand", head)
		}
	}

	switch head {
	case "func":
		r.b.fn.Name = fields[1]
	case "local":
		if _, dup := r.locals[fields[1]]; dup {
			return r.errorf("local %q declared twice", fields[1])
		}
		r.locals[fields[1]] = r.b.Local()
	case "push":
		v, err := strconv.ParseInt(fields[1], 0, 32)
		if err != nil {
			return r.errorf("bad immediate %q: not a 32-bit integer", fields[1])
		}
		r.b.Emit(PushInt(int32(v)))
	case "load", "store":
		l, err := r.local(fields[1])
		if err != nil {
			return err
		}
		if head == "load" {
			r.b.Emit(Load(l))
		} else {
			r.b.Emit(Store(l))
		}
	case "drop":
		r.b.Emit(Drop())
	case "add":
		r.b.Emit(Add())
	case "sub":
		r.b.Emit(Sub())
	case "mul":
		r.b.Emit(Mul())
	case "div":
		r.b.Emit(Div())
	case "label":
		r.b.Emit(Mark(r.label(fields[1])))
	case "jump", "jmp":
		r.b.Emit(Jump(r.label(fields[1])))
	case "brz", "branchifnot":
		r.b.Emit(BranchIfNot(r.label(fields[1])))
	case "ret", "return":
		r.b.Emit(Return())
	default:
		return r.errorf("unknown instruction %q", fields[0])
	}
	return nil
}
