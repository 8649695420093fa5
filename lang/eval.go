package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
)

// EntryPoint is the name of the function a program starts in.
const EntryPoint = "main"

// Module is a loaded program: its syntax tree plus an immutable function
// table keyed by name. A Module may be run any number of times.
type Module struct {
	prog  *Program
	funcs map[string]*FuncDecl
}

// Load builds the function table for prog and validates the entry point.
//
// It fails with [ErrDuplicateDefinition] if two functions share a name, a
// function is named after a built-in, or a function repeats a parameter
// name; with [ErrUndefinedReference] if there is no main; and with
// [ErrArity] or [ErrType] if main is not declared "() returns int".
func Load(prog *Program) (*Module, error) {
	m := &Module{
		prog:  prog,
		funcs: make(map[string]*FuncDecl, len(prog.Funcs)),
	}

	for fn := range prog.All() {
		if _, ok := builtins[fn.Name]; ok {
			return nil, ErrDuplicateDefinition.WithPosition(fn.Pos).
				With(slog.String("name", fn.Name), slog.String("conflict", "built-in"))
		}

		if prev, ok := m.funcs[fn.Name]; ok {
			return nil, ErrDuplicateDefinition.WithPosition(fn.Pos).
				With(slog.String("name", fn.Name), slog.Any("previous", prev.Pos))
		}

		seen := make(map[string]struct{}, len(fn.Params))
		for _, param := range fn.Params {
			if _, dup := seen[param.Name]; dup {
				return nil, ErrDuplicateDefinition.WithPosition(param.Pos).
					With(slog.String("func", fn.Name), slog.String("name", param.Name))
			}

			seen[param.Name] = struct{}{}
		}

		m.funcs[fn.Name] = fn
	}

	entry, ok := m.funcs[EntryPoint]
	if !ok {
		return nil, ErrUndefinedReference.With(slog.String("name", EntryPoint))
	}

	if len(entry.Params) != 0 {
		return nil, ErrArity.WithPosition(entry.Pos).
			With(
				slog.String("name", EntryPoint),
				slog.Int("expected", 0),
				slog.Int("got", len(entry.Params)),
			)
	}

	if entry.Result.Kind != KindInt {
		return nil, ErrType.WithPosition(entry.Result.Pos).
			With(
				slog.String("name", EntryPoint),
				slog.String("expected", KindInt.String()),
				slog.String("got", entry.Result.Name),
			)
	}

	return m, nil
}

// Program returns the syntax tree the module was loaded from.
func (m *Module) Program() *Program { return m.prog }

// Func returns the function declared with name.
func (m *Module) Func(name string) (*FuncDecl, bool) {
	fn, ok := m.funcs[name]

	return fn, ok
}

// Run calls main with no arguments and returns its result as the exit code.
//
// Output already written by print before a failure remains written.
func (m *Module) Run(ctx context.Context, opts ...Option) (int, error) {
	in := &interpreter{
		ctx:  ctx,
		mod:  m,
		opts: makeOptions(opts...),
	}

	in.opts.logger.TraceContext(ctx, "run start",
		slog.Int("func_count", len(m.funcs)),
		slog.Int("max_depth", in.opts.maxDepth))

	result, err := in.call(m.funcs[EntryPoint], nil, m.funcs[EntryPoint].Pos)
	if err != nil {
		return 0, err
	}

	in.opts.logger.TraceContext(ctx, "run complete",
		slog.Int64("exit_code", result.Int))

	return int(result.Int), nil
}

// Run lexes, parses, loads and runs the program in src.
func Run(ctx context.Context, src string, opts ...Option) (int, error) {
	prog, err := ParseString(ctx, src, opts...)
	if err != nil {
		return 0, err
	}

	mod, err := Load(prog)
	if err != nil {
		return 0, err
	}

	return mod.Run(ctx, opts...)
}

// flow tells a statement's caller whether to continue with the next
// statement or unwind to the enclosing function call.
type flow int

const (
	flowNormal flow = iota
	flowReturn
)

// completion is the outcome of executing a statement.
type completion struct {
	flow  flow
	value Value    // returned value when flow == flowReturn
	pos   Position // position of the return statement
}

//nolint:gochecknoglobals
var normal = completion{flow: flowNormal}

// interpreter holds the state of one run.
type interpreter struct {
	ctx   context.Context
	mod   *Module
	opts  options
	depth int
}

// call invokes fn with already-evaluated arguments in a fresh root scope.
func (in *interpreter) call(fn *FuncDecl, args []Value, pos Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return Value{}, ErrArity.WithPosition(pos).
			With(
				slog.String("name", fn.Name),
				slog.Int("expected", len(fn.Params)),
				slog.Int("got", len(args)),
			)
	}

	if in.depth >= in.opts.maxDepth {
		return Value{}, ErrMaxDepthExceeded.WithPosition(pos).
			With(slog.String("name", fn.Name), slog.Int("depth", in.depth))
	}

	in.depth++
	defer func() { in.depth-- }()

	in.opts.logger.TraceContext(in.ctx, "call",
		slog.String("func", fn.Name),
		slog.Int("depth", in.depth))

	env := NewEnv()
	defer env.Release()

	for i, param := range fn.Params {
		if err := env.Define(param.Name, param.Type.Kind, args[i]); err != nil {
			return Value{}, at(err, pos)
		}
	}

	c, err := in.execBlock(fn.Body, env)
	if err != nil {
		return Value{}, err
	}

	if c.flow != flowReturn {
		return Value{}, ErrMissingReturn.WithPosition(fn.Body.End).
			With(slog.String("func", fn.Name))
	}

	if c.value.Kind != fn.Result.Kind {
		return Value{}, ErrType.WithPosition(c.pos).
			With(
				slog.String("func", fn.Name),
				slog.String("declared", fn.Result.Name),
				slog.String("got", c.value.Kind.String()),
			)
	}

	return c.value, nil
}

// execBlock runs b in a new scope enclosed by outer. The scope is released
// on every exit path.
func (in *interpreter) execBlock(b *Block, outer *Env) (completion, error) {
	scope := outer.Child()
	defer scope.Release()

	for _, stmt := range b.Stmts {
		c, err := in.exec(stmt, scope)
		if err != nil || c.flow == flowReturn {
			return c, err
		}
	}

	return normal, nil
}

// exec runs a single statement.
func (in *interpreter) exec(stmt Stmt, env *Env) (completion, error) {
	switch s := stmt.(type) {
	case *VarDecl:
		v, err := in.eval(s.Init, env)
		if err != nil {
			return normal, err
		}

		return normal, at(env.Define(s.Name, s.Type.Kind, v), s.Pos)

	case *Assign:
		return normal, in.execAssign(s, env)

	case *While:
		for {
			ok, err := in.cond(s.Cond, env)
			if err != nil || !ok {
				return normal, err
			}

			c, err := in.execBlock(s.Body, env)
			if err != nil || c.flow == flowReturn {
				return c, err
			}
		}

	case *If:
		ok, err := in.cond(s.Cond, env)
		if err != nil {
			return normal, err
		}

		if ok {
			return in.execBlock(s.Then, env)
		}

		if s.Else != nil {
			return in.execBlock(s.Else, env)
		}

		return normal, nil

	case *Return:
		c := completion{flow: flowReturn, value: Unit, pos: s.Pos}

		if s.Value != nil {
			v, err := in.eval(s.Value, env)
			if err != nil {
				return normal, err
			}

			c.value = v
		}

		return c, nil

	case *ExprStmt:
		_, err := in.eval(s.X, env)

		return normal, err

	default:
		return normal, ErrType.WithPosition(stmt.Position()).
			With(slog.String("statement", typeName(stmt)))
	}
}

func (in *interpreter) execAssign(s *Assign, env *Env) error {
	v, err := in.eval(s.Value, env)
	if err != nil {
		return err
	}

	if op := assignOps[s.Op]; op != "" {
		cur, err := env.Lookup(s.Name)
		if err != nil {
			return at(err, s.Pos)
		}

		v, err = binary(op, cur, v)
		if err != nil {
			return at(err, s.Pos)
		}
	}

	return at(env.Assign(s.Name, v), s.Pos)
}

// cond evaluates a loop or branch condition: any non-zero integer is true.
func (in *interpreter) cond(x Expr, env *Env) (bool, error) {
	v, err := in.eval(x, env)
	if err != nil {
		return false, err
	}

	if v.Kind != KindInt {
		return false, ErrType.WithPosition(x.Position()).
			With(
				slog.String("expected", KindInt.String()),
				slog.String("got", v.Kind.String()),
			)
	}

	return v.Int != 0, nil
}

// eval evaluates an expression.
func (in *interpreter) eval(x Expr, env *Env) (Value, error) {
	switch e := x.(type) {
	case *IntLit:
		return IntValue(e.Value), nil

	case *StringLit:
		return TextValue(e.Value), nil

	case *Ident:
		v, err := env.Lookup(e.Name)

		return v, at(err, e.Pos)

	case *Binary:
		l, err := in.eval(e.Left, env)
		if err != nil {
			return Value{}, err
		}

		r, err := in.eval(e.Right, env)
		if err != nil {
			return Value{}, err
		}

		v, err := binary(e.Op, l, r)

		return v, at(err, e.Pos)

	case *Call:
		return in.evalCall(e, env)

	default:
		return Value{}, ErrType.WithPosition(x.Position()).
			With(slog.String("expression", typeName(x)))
	}
}

// evalCall evaluates the arguments left to right in the caller's scope,
// then dispatches to a built-in or a user function, in that order.
func (in *interpreter) evalCall(e *Call, env *Env) (Value, error) {
	if b, ok := builtins[e.Name]; ok && len(e.Args) != b.arity {
		return Value{}, ErrArity.WithPosition(e.Pos).
			With(
				slog.String("name", e.Name),
				slog.Int("expected", b.arity),
				slog.Int("got", len(e.Args)),
			)
	}

	args := make([]Value, len(e.Args))

	for i, arg := range e.Args {
		v, err := in.eval(arg, env)
		if err != nil {
			return Value{}, err
		}

		args[i] = v
	}

	if b, ok := builtins[e.Name]; ok {
		v, err := b.fn(in, args)

		return v, at(err, e.Pos)
	}

	fn, ok := in.mod.funcs[e.Name]
	if !ok {
		names := slices.Sorted(maps.Keys(in.mod.funcs))

		return Value{}, undefined(e.Name, names).WithPosition(e.Pos)
	}

	return in.call(fn, args, e.Pos)
}

// builtin is a callable resolved without user declaration.
type builtin struct {
	arity int
	fn    func(in *interpreter, args []Value) (Value, error)
}

// builtinPrint is the name of the output built-in.
const builtinPrint = "print"

//nolint:gochecknoglobals
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		builtinPrint: {arity: 1, fn: (*interpreter).print},
	}
}

// print writes its argument's text to the output without a trailing newline.
func (in *interpreter) print(args []Value) (Value, error) {
	v := args[0]

	if v.Kind != KindInt && v.Kind != KindText {
		return Value{}, ErrType.With(
			slog.String("name", builtinPrint),
			slog.String("got", v.Kind.String()),
		)
	}

	if _, err := io.WriteString(in.opts.output, v.String()); err != nil {
		return Value{}, ErrWriteOutput.Wrap(err)
	}

	return Unit, nil
}

// at attaches pos to err unless it already carries a position.
func at(err error, pos Position) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		if _, ok := e.Position(); !ok {
			return e.WithPosition(pos)
		}
	}

	return err
}
