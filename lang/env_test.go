package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestEnv_DefineLookup(t *testing.T) {
	env := NewEnv()

	if err := env.Define("x", KindInt, IntValue(1)); err != nil {
		t.Fatalf("Define() error: %v", err)
	}

	v, err := env.Lookup("x")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	if v != IntValue(1) {
		t.Errorf("Lookup() = %v, want 1", v)
	}
}

func TestEnv_Duplicate(t *testing.T) {
	env := NewEnv()
	_ = env.Define("x", KindInt, IntValue(1))

	err := env.Define("x", KindInt, IntValue(2))
	if !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("Define() error = %v, want ErrDuplicateDefinition", err)
	}
}

func TestEnv_Shadowing(t *testing.T) {
	outer := NewEnv()
	_ = outer.Define("x", KindInt, IntValue(1))

	inner := outer.Child()
	if err := inner.Define("x", KindInt, IntValue(2)); err != nil {
		t.Fatalf("shadowing Define() error: %v", err)
	}

	if v, _ := inner.Lookup("x"); v.Int != 2 {
		t.Errorf("inner x = %v, want 2", v)
	}

	inner.Release()

	if v, _ := outer.Lookup("x"); v.Int != 1 {
		t.Errorf("outer x = %v, want 1", v)
	}
}

func TestEnv_AssignNearest(t *testing.T) {
	outer := NewEnv()
	_ = outer.Define("x", KindInt, IntValue(1))

	inner := outer.Child()
	if err := inner.Assign("x", IntValue(5)); err != nil {
		t.Fatalf("Assign() error: %v", err)
	}

	inner.Release()

	if v, _ := outer.Lookup("x"); v.Int != 5 {
		t.Errorf("outer x = %v, want 5", v)
	}
}

func TestEnv_Undefined(t *testing.T) {
	env := NewEnv()
	_ = env.Define("counter", KindInt, IntValue(0))

	if _, err := env.Lookup("y"); !errors.Is(err, ErrUndefinedReference) {
		t.Errorf("Lookup() error = %v, want ErrUndefinedReference", err)
	}

	if err := env.Assign("y", IntValue(1)); !errors.Is(err, ErrUndefinedReference) {
		t.Errorf("Assign() error = %v, want ErrUndefinedReference", err)
	}

	// Assign never creates a binding.
	if _, err := env.Lookup("y"); err == nil {
		t.Error("Assign() created a binding")
	}
}

func TestEnv_UndefinedSuggestion(t *testing.T) {
	env := NewEnv()
	_ = env.Define("counter", KindInt, IntValue(0))

	_, err := env.Lookup("cnt")
	if err == nil || !strings.Contains(err.Error(), "counter") {
		t.Errorf("Lookup() error = %v, want suggestion of counter", err)
	}
}

func TestEnv_TypeMismatch(t *testing.T) {
	env := NewEnv()

	if err := env.Define("x", KindInt, TextValue("a")); !errors.Is(err, ErrType) {
		t.Errorf("Define() error = %v, want ErrType", err)
	}

	_ = env.Define("y", KindInt, IntValue(0))

	if err := env.Assign("y", TextValue("a")); !errors.Is(err, ErrType) {
		t.Errorf("Assign() error = %v, want ErrType", err)
	}
}

func TestEnv_Released(t *testing.T) {
	env := NewEnv()
	_ = env.Define("x", KindInt, IntValue(1))

	env.Release()
	env.Release()

	if _, err := env.Lookup("x"); !errors.Is(err, ErrScopeReleased) {
		t.Errorf("Lookup() error = %v, want ErrScopeReleased", err)
	}

	if err := env.Define("y", KindInt, IntValue(1)); !errors.Is(err, ErrScopeReleased) {
		t.Errorf("Define() error = %v, want ErrScopeReleased", err)
	}
}

func TestEnv_Names(t *testing.T) {
	outer := NewEnv()
	_ = outer.Define("b", KindInt, IntValue(1))
	_ = outer.Define("a", KindInt, IntValue(1))

	inner := outer.Child()
	_ = inner.Define("c", KindInt, IntValue(1))
	_ = inner.Define("a", KindInt, IntValue(2))

	got := slices.Collect(inner.Names())
	want := []string{"a", "c", "b"}

	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
