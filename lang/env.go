package lang

// This file defines the lexical environment used during evaluation. Each
// function call gets a fresh root Env and each block entry a child of the
// enclosing Env; both are released by the frame that created them.

import (
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" candidates attached to an
// undefined reference.
const maxSuggestions = 3

// binding is a named slot holding a value of its declared kind.
type binding struct {
	kind  Kind
	value Value
}

// Env is one lexical scope: a set of bindings plus a link to the enclosing
// scope. The zero value is not usable; call [NewEnv].
type Env struct {
	vars     map[string]*binding
	outer    *Env
	released bool
}

// NewEnv returns an empty root scope.
func NewEnv() *Env {
	return &Env{vars: make(map[string]*binding)}
}

// Child returns a new scope enclosed by e.
func (e *Env) Child() *Env {
	c := NewEnv()
	c.outer = e

	return c
}

// Release drops every binding and the link to the enclosing scope. Any later
// use of e fails with [ErrScopeReleased]. Releasing twice is harmless.
func (e *Env) Release() {
	clear(e.vars)
	e.vars = nil
	e.outer = nil
	e.released = true
}

// Define binds name to value in this scope. It fails with
// [ErrDuplicateDefinition] if name is already bound here; bindings in
// enclosing scopes are shadowed, not replaced.
func (e *Env) Define(name string, kind Kind, value Value) error {
	if e.released {
		return ErrScopeReleased.With(slog.String("name", name))
	}

	if _, ok := e.vars[name]; ok {
		return ErrDuplicateDefinition.With(slog.String("name", name))
	}

	if value.Kind != kind {
		return ErrType.With(
			slog.String("name", name),
			slog.String("declared", kind.String()),
			slog.String("got", value.Kind.String()),
		)
	}

	e.vars[name] = &binding{kind: kind, value: value}

	return nil
}

// Lookup resolves name in this scope, then in each enclosing scope outward.
func (e *Env) Lookup(name string) (Value, error) {
	b, err := e.resolve(name)
	if err != nil {
		return Value{}, err
	}

	return b.value, nil
}

// Assign overwrites the nearest binding of name. It never creates a binding.
func (e *Env) Assign(name string, value Value) error {
	b, err := e.resolve(name)
	if err != nil {
		return err
	}

	if value.Kind != b.kind {
		return ErrType.With(
			slog.String("name", name),
			slog.String("declared", b.kind.String()),
			slog.String("got", value.Kind.String()),
		)
	}

	b.value = value

	return nil
}

// Names returns an iterator over every name visible from this scope,
// innermost first. Shadowed names are yielded once.
func (e *Env) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})

		for s := e; s != nil; s = s.outer {
			for _, name := range slices.Sorted(maps.Keys(s.vars)) {
				if _, dup := seen[name]; dup {
					continue
				}

				seen[name] = struct{}{}

				if !yield(name) {
					return
				}
			}
		}
	}
}

func (e *Env) resolve(name string) (*binding, error) {
	if e.released {
		return nil, ErrScopeReleased.With(slog.String("name", name))
	}

	for s := e; s != nil; s = s.outer {
		if b, ok := s.vars[name]; ok {
			return b, nil
		}
	}

	return nil, undefined(name, slices.Collect(e.Names()))
}

// undefined builds an undefined reference error for name, suggesting the
// closest candidates.
func undefined(name string, candidates []string) *Error {
	err := ErrUndefinedReference.With(slog.String("name", name))

	if s := suggest(name, candidates); len(s) > 0 {
		err = err.With(slog.Any("suggest", s))
	}

	return err
}

// suggest returns up to maxSuggestions candidates that fuzzy-match name.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if m.Str == name {
			continue
		}

		out = append(out, m.Str)

		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}
