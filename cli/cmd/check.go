package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/clearsys/lang"
	"github.com/ardnew/clearsys/log"
)

// Check verifies that a program lexes, parses and loads, without running it.
type Check struct {
	Source string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st := StateFrom(ctx)

	src, err := st.Open(c.Source)
	if err != nil {
		return ErrCheck.With(slog.String("file", c.Source)).Wrap(err)
	}

	prog, err := lang.ParseString(ctx, src.Text, st.options()...)
	if err != nil {
		return diagnose(src, err)
	}

	if _, err := lang.Load(prog); err != nil {
		return diagnose(src, err)
	}

	log.InfoContext(ctx, "program ok",
		slog.String("file", src.Path),
		slog.Int("funcs", len(prog.Funcs)))

	return nil
}
