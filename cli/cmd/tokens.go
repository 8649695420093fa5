package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/clearsys/lang"
)

// Tokens prints the tokens of a program.
type Tokens struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st := StateFrom(ctx)

	src, err := st.Open(t.Source)
	if err != nil {
		return ErrTokens.With(slog.String("file", t.Source)).Wrap(err)
	}

	toks, err := lang.Tokens(src.Text)
	if err != nil {
		return diagnose(src, err)
	}

	err = dump(ctx, st.Stdout, lang.TokenList(toks), t.Format, "text", t.Indent)
	if err != nil {
		return ErrTokens.With(slog.String("format", t.Format)).Wrap(err)
	}

	return nil
}
