package cmd

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/clearsys/lang"
)

// Diagnostic is a language error tied to the source it was reported for.
type Diagnostic struct {
	Source Source
	Err    *lang.Error
}

// diagnose returns err as a *Diagnostic if it is a language error, or err
// unchanged otherwise.
func diagnose(src Source, err error) error {
	var le *lang.Error
	if !errors.As(err, &le) {
		return err
	}

	return &Diagnostic{Source: src, Err: le}
}

func (d *Diagnostic) Error() string {
	if pos, ok := d.Err.Position(); ok {
		return d.Source.Path + ":" + pos.String() + ": " + d.Err.Error()
	}

	return d.Source.Path + ": " + d.Err.Error()
}

func (d *Diagnostic) Unwrap() error { return d.Err }

func (d *Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", d.Source.Path),
		slog.Any("error", d.Err),
	)
}

// Render writes the diagnostic for a human reader:
//
//	error: undefined reference at line 3, column 5 (name=foo)
//	  --> prog.cs:3:5
//	  3 |     foo();
//	          ^
//
// Styles come from a renderer bound to w, so a writer that is not a terminal
// receives plain text.
func (d *Diagnostic) Render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	where := r.NewStyle().Foreground(lipgloss.Color("4"))
	caret := r.NewStyle().Foreground(lipgloss.Color("1"))

	var sb strings.Builder

	sb.WriteString(label.Render("error"))
	sb.WriteString(": ")
	sb.WriteString(d.Err.Error())
	sb.WriteByte('\n')

	pos, ok := d.Err.Position()
	if ok {
		sb.WriteString(where.Render("  --> " + d.Source.Path + ":" + pos.String()))
		sb.WriteByte('\n')

		snippet := strings.TrimSuffix(lang.Snippet(d.Source.Text, pos), "\n")
		if line, mark, found := strings.Cut(snippet, "\n"); found {
			pad := strings.TrimRight(mark, "^")
			sb.WriteString(line)
			sb.WriteByte('\n')
			sb.WriteString(pad)
			sb.WriteString(caret.Render("^"))
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
