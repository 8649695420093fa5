package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/clearsys/lang"
	"github.com/ardnew/clearsys/log"
)

// Run executes a program. The process exits with the value returned by main,
// or 255 if that value is outside 0..255.
type Run struct {
	Source string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st := StateFrom(ctx)

	src, err := st.Open(r.Source)
	if err != nil {
		return ErrRun.With(slog.String("file", r.Source)).Wrap(err)
	}

	code, err := lang.Run(ctx, src.Text, st.options()...)
	if err != nil {
		return diagnose(src, err)
	}

	status, ok := exitStatus(code)
	if !ok {
		log.WarnContext(ctx, "program result out of exit status range",
			slog.String("file", src.Path),
			slog.Int("result", code),
			slog.Int("status", status))
	}

	st.Status = status

	log.DebugContext(ctx, "program exited",
		slog.String("file", src.Path),
		slog.Int("status", status))

	return nil
}

// maxExitStatus is the largest exit status a process can report.
const maxExitStatus = 255

// exitStatus maps the result of main to a process exit status. Results
// outside 0..255 would be truncated by the operating system, possibly to 0,
// so they report maxExitStatus and false instead.
func exitStatus(code int) (int, bool) {
	if code < 0 || code > maxExitStatus {
		return maxExitStatus, false
	}

	return code, true
}
