// Package cmd implements the clearsys subcommands.
//
// Each command is a kong command struct whose Run method receives the
// application's [context.Context]. Shared runtime settings such as the
// output streams, the source search path and the call depth limit travel in
// that context as a [*State] (see [WithState]).
//
// Errors reported by the language itself (lexing, parsing, loading or
// running a program) are returned as a [*Diagnostic], which renders the
// error kind, the source position and the offending line with a caret.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the YAML configuration file.
	ConfigIdentifier = "config"
)
