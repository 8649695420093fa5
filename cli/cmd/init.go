package cmd

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/clearsys/log"
	"github.com/ardnew/clearsys/pkg"
	"github.com/ardnew/clearsys/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrInit.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrConfigExists.Wrapf("%s (use --force to overwrite)", confPath))
	}

	data, err := yaml.MarshalWithOptions(
		i.settings(ktx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrInit.Wrap(pkg.ErrWriteConfig.Wrap(err))
	}

	err = os.MkdirAll(filepath.Dir(confPath), 0o700)
	if err == nil {
		err = os.WriteFile(confPath, data, 0o600)
	}

	if err != nil {
		return ErrInit.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrWriteConfig.Wrap(err))
	}

	log.InfoContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// settings collects the current value of every persistent global flag,
// keyed by flag name. Unset and empty values are omitted.
func (i *Init) settings(ktx *kong.Context) map[string]any {
	ignore := []string{"help", "version", profile.Tag}

	out := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			out[flag.Name] = val
		}
	}

	return out
}

// flagValue converts a parsed flag value to a YAML-friendly native value,
// or nil if the value is empty.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int64, uint, uint64, float64:
		return v

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return nil
		}

		return string(text)

	default:
		return fmt.Sprint(v)
	}
}
