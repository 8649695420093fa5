package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/clearsys/lang"
	"github.com/ardnew/clearsys/log"
	"github.com/ardnew/clearsys/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// State holds the runtime settings shared by all commands.
type State struct {
	Stdin  io.Reader
	Stdout io.Writer // program output and command results
	Stderr io.Writer // diagnostics

	// SearchPath lists directories searched, in order, for relative source
	// paths not found in the working directory.
	SearchPath []string

	// MaxDepth limits nested function calls; values below 1 select
	// [lang.DefaultMaxDepth].
	MaxDepth int

	// Status is the process exit status requested by the last command.
	Status int
}

type stateKey struct{}

// WithState returns a new context.Context containing st.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// StateFrom returns the State stored in ctx by [WithState], or a State bound
// to the standard streams if there is none.
func StateFrom(ctx context.Context) *State {
	if st, ok := ctx.Value(stateKey{}).(*State); ok && st != nil {
		return st
	}

	return &State{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// options returns the language options implied by s.
func (s *State) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithOutput(s.Stdout),
		lang.WithMaxDepth(s.MaxDepth),
	}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is a program read from a file or standard input.
type Source struct {
	Path string // resolved path, or "-" for standard input
	Text string
}

// Open reads the source named by path.
//
// A relative path is tried in the working directory first, then in each
// directory of s.SearchPath. At each location the name is tried as given and
// then with the [pkg.FileExt] extension appended, so "prog" finds "prog.cs".
func (s *State) Open(path string) (Source, error) {
	if path == stdinSource {
		data, err := io.ReadAll(s.Stdin)
		if err != nil {
			return Source{}, lang.ErrReadInput.Wrap(err)
		}

		return Source{Path: stdinSource, Text: string(data)}, nil
	}

	for _, cand := range s.candidates(path) {
		data, err := os.ReadFile(cand)
		if err == nil {
			log.Debug("source resolved",
				slog.String("path", path),
				slog.String("file", cand))

			return Source{Path: cand, Text: string(data)}, nil
		}

		if !errors.Is(err, fs.ErrNotExist) && !isDir(cand) {
			return Source{}, lang.ErrReadInput.Wrap(err).
				With(slog.String("file", cand))
		}
	}

	return Source{}, pkg.ErrSourceNotFound.Wrapf("%s (searched %d directories)",
		path, len(s.SearchPath))
}

// candidates lists the file names tried for path, in order.
func (s *State) candidates(path string) []string {
	dirs := []string{""}
	if !filepath.IsAbs(path) {
		dirs = append(dirs, s.SearchPath...)
	}

	names := []string{path}
	if !strings.HasSuffix(path, pkg.FileExt) {
		names = append(names, path+pkg.FileExt)
	}

	cands := make([]string, 0, len(dirs)*len(names))

	for _, dir := range dirs {
		for _, name := range names {
			cands = append(cands, filepath.Join(dir, name))
		}
	}

	return cands
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
