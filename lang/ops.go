package lang

import (
	"fmt"
	"log/slog"
	"strings"
)

// operand is the pair of value kinds an infix operator is applied to.
type operand struct{ left, right Kind }

// binaryFunc applies one infix operator to two operands of known kinds.
type binaryFunc func(l, r Value) (Value, error)

// binaryOps dispatches an infix operator on its operand kinds. An operator
// absent for a pair of kinds is a type error. Supporting a new kind means
// adding its row here.
//
//nolint:gochecknoglobals
var binaryOps = map[operand]map[string]binaryFunc{
	{KindInt, KindInt}: {
		"+": func(l, r Value) (Value, error) { return IntValue(l.Int + r.Int), nil },
		"-": func(l, r Value) (Value, error) { return IntValue(l.Int - r.Int), nil },
		"*": func(l, r Value) (Value, error) { return IntValue(l.Int * r.Int), nil },
		"/": func(l, r Value) (Value, error) {
			if r.Int == 0 {
				return Value{}, ErrDivisionByZero.With(slog.Int64("dividend", l.Int))
			}

			return IntValue(l.Int / r.Int), nil
		},
		"==": func(l, r Value) (Value, error) { return BoolValue(l.Int == r.Int), nil },
		"<":  func(l, r Value) (Value, error) { return BoolValue(l.Int < r.Int), nil },
		">":  func(l, r Value) (Value, error) { return BoolValue(l.Int > r.Int), nil },
	},
}

// binary applies op to l and r.
func binary(op string, l, r Value) (Value, error) {
	fn, ok := binaryOps[operand{l.Kind, r.Kind}][op]
	if !ok {
		return Value{}, ErrType.With(
			slog.String("operator", op),
			slog.String("left", l.Kind.String()),
			slog.String("right", r.Kind.String()),
		)
	}

	return fn(l, r)
}

// typeName returns the unqualified Go type name of a syntax node, used to
// describe nodes the evaluator does not recognize.
func typeName(n Node) string {
	s := fmt.Sprintf("%T", n)

	return s[strings.LastIndexByte(s, '.')+1:]
}
