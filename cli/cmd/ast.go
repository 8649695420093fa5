package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/clearsys/lang"
)

// AST prints the syntax tree of a program.
//
// The source format re-emits the program as canonical ClearSys text; an
// indent of 0 indents with tabs.
type AST struct {
	Format string `default:"source" enum:"source,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                              help:"Indent width."             short:"i"`

	Source string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st := StateFrom(ctx)

	src, err := st.Open(a.Source)
	if err != nil {
		return ErrAST.With(slog.String("file", a.Source)).Wrap(err)
	}

	prog, err := lang.ParseString(ctx, src.Text, st.options()...)
	if err != nil {
		return diagnose(src, err)
	}

	err = dump(ctx, st.Stdout, prog, a.Format, "source", a.Indent)
	if err != nil {
		return ErrAST.With(slog.String("format", a.Format)).Wrap(err)
	}

	return nil
}
