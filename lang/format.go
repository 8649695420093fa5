package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in ClearSys source syntax to the writer. Each
// nesting level is indented by indent spaces; indent 0 selects a tab.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{unit: "\t"}
	if indent > 0 {
		f.unit = strings.Repeat(" ", indent)
	}

	for i, fn := range p.Funcs {
		if i > 0 {
			f.sb.WriteByte('\n')
		}

		f.funcDecl(fn)
	}

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatJSON writes the program's syntax tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, p, indent)
}

// FormatYAML writes the program's syntax tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, p.ToMap(), indent)
}

// Format writes one token per line as "line:column kind text".
func (ts TokenList) Format(_ context.Context, w io.Writer, _ int) error {
	for _, t := range ts {
		if _, err := fmt.Fprintf(w, "%-8s %-10s %s\n",
			t.Pos, t.Kind, t.Text); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tokens as JSON to the writer.
func (ts TokenList) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, ts, indent)
}

// FormatYAML writes the tokens as YAML to the writer.
func (ts TokenList) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, ts.ToNative(), indent)
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// formatter accumulates formatted source text.
type formatter struct {
	sb    strings.Builder
	unit  string
	depth int
}

func (f *formatter) line(s string) {
	f.sb.WriteString(strings.Repeat(f.unit, f.depth))
	f.sb.WriteString(s)
	f.sb.WriteByte('\n')
}

func (f *formatter) funcDecl(fn *FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Type.Name + " " + param.Name
	}

	f.block(fmt.Sprintf("%s %s(%s) %s %s ",
		KeywordSubr, fn.Name, strings.Join(params, ", "),
		KeywordReturns, fn.Result.Name), fn.Body, "")
}

// block writes head, the braced statements of b, and tail after the
// closing brace.
func (f *formatter) block(head string, b *Block, tail string) {
	f.line(head + "{")
	f.depth++

	for _, stmt := range b.Stmts {
		f.stmt(stmt)
	}

	f.depth--
	f.line("}" + tail)
}

func (f *formatter) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		f.line(s.Type.Name + " " + s.Name + " = " + formatExpr(s.Init, 0) + ";")

	case *Assign:
		f.line(s.Name + " " + s.Op + " " + formatExpr(s.Value, 0) + ";")

	case *While:
		f.block(KeywordWhile+" ("+formatExpr(s.Cond, 0)+") ", s.Body, "")

	case *If:
		head := KeywordIf + " (" + formatExpr(s.Cond, 0) + ") "
		if s.Else == nil {
			f.block(head, s.Then, "")

			return
		}

		// Emit "} else {" on one line.
		f.line(head + "{")
		f.depth++

		for _, inner := range s.Then.Stmts {
			f.stmt(inner)
		}

		f.depth--
		f.block("} "+KeywordElse+" ", s.Else, "")

	case *Return:
		if s.Value == nil {
			f.line(KeywordReturn + ";")
		} else {
			f.line(KeywordReturn + " " + formatExpr(s.Value, 0) + ";")
		}

	case *ExprStmt:
		f.line(formatExpr(s.X, 0) + ";")
	}
}

// formatExpr renders x, parenthesizing it if its operator binds looser than
// the surrounding precedence level.
func formatExpr(x Expr, level int) string {
	switch e := x.(type) {
	case *IntLit:
		return strconv.FormatInt(e.Value, 10)

	case *StringLit:
		return Quote(e.Value)

	case *Ident:
		return e.Name

	case *Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = formatExpr(arg, 0)
		}

		return e.Name + "(" + strings.Join(args, ", ") + ")"

	case *Binary:
		op := operatorLevel(e.Op)
		// Operators are left-associative, so a right operand at the same
		// level needs parentheses.
		s := formatExpr(e.Left, op) + " " + e.Op + " " + formatExpr(e.Right, op+1)
		if op < level {
			return "(" + s + ")"
		}

		return s

	default:
		return ""
	}
}

// operatorLevel returns the precedence level of an infix operator.
func operatorLevel(op string) int {
	for level, ops := range precedence {
		if slices.Contains(ops, op) {
			return level
		}
	}

	return len(precedence)
}

// Quote returns s as a string literal, the inverse of [Unquote]. Bytes
// that need no escape are copied unchanged.
func Quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := range len(s) {
		switch b := s[i]; b {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(b)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
