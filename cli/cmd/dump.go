package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/ardnew/clearsys/pkg"
)

// dumper is implemented by values that can be written in several formats.
type dumper interface {
	Format(ctx context.Context, w io.Writer, indent int) error
	FormatJSON(ctx context.Context, w io.Writer, indent int) error
	FormatYAML(ctx context.Context, w io.Writer, indent int) error
}

// dump writes v to w in the named format. The native format of v is
// selected by native, which is "text" for tokens and "source" for programs.
func dump(
	ctx context.Context,
	w io.Writer,
	v dumper,
	format, native string,
	indent int,
) error {
	switch format {
	case native:
		return v.Format(ctx, w, indent)
	case "json":
		return v.FormatJSON(ctx, w, indent)
	case "yaml":
		return v.FormatYAML(ctx, w, indent)
	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (want one of %s)",
			format, strings.Join([]string{native, "json", "yaml"}, ", "))
	}
}
