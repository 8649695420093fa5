// Package profile provides optional runtime profiling of the interpreter.
//
// Profiling is built on [github.com/pkg/profile] and is compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//	clearsys --pprof-mode=cpu --pprof-dir=./profiles prog.cs
//
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
//
// Profile files are named after the mode (cpu.pprof, mem.pprof, ...) and
// can be inspected with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
