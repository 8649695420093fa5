// Package cli contains the command line interface for clearsys.
//
// # Usage
//
//	clearsys [flags] <file>             # run a program (default command)
//	clearsys run [flags] <file>         # same as above
//	clearsys check <file>               # lex, parse and load only
//	clearsys tokens [-f text|json|yaml] <file>
//	clearsys ast [-f source|json|yaml] <file>
//	clearsys init [--force]             # write the YAML configuration file
//
// The run command exits with the integer returned by the program's main
// function, or 255 if that integer is outside 0..255. A lexical, syntax or
// runtime error prints a diagnostic on standard error and exits with status
// 1. Standard output carries only the program's own output.
//
// # Source Resolution
//
// A relative source path is tried in the working directory, then in each
// directory given with --search-path, then in each directory listed in the
// CLEARSYS_PATH environment variable. The .cs extension may be omitted.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/clearsys). The YAML file
// maps flag names to values:
//
//	log-level: debug
//	max-depth: 500
//	search-path:
//	  - /usr/local/share/clearsys
//
// Command-line flags override configuration values. The init command writes
// config.yaml from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout (rfc3339, kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output on terminals
//
// Logs are written to standard error. At trace level the interpreter logs
// every function call and return.
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/clearsys/pprof)
//
// These flags are only available when built with the pprof build tag:
//
//	go build -tags pprof -o clearsys .
package cli
