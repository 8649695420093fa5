package cli

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/clearsys/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// searchPathVar is the name of the environment variable whose directories
// follow those given with --search-path.
//
//nolint:gochecknoglobals
var searchPathVar = pkg.EnvVar("path")

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// searchPath composes the source search path: the directories in dirs, in
// order, followed by those listed in the environment value env. Empty and
// repeated entries are dropped.
func searchPath(env string, dirs ...string) []string {
	// mung prepends prefix items one at a time, so the last one given
	// ends up first.
	prefix := slices.Clone(dirs)
	slices.Reverse(prefix)

	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()

	var out []string

	for _, dir := range filepath.SplitList(list) {
		if dir != "" && !slices.Contains(out, dir) {
			out = append(out, dir)
		}
	}

	return out
}
