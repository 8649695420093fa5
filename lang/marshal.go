package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a native Go map structure.
func (p *Program) ToMap() map[string]any {
	funcs := make([]any, len(p.Funcs))
	for i, fn := range p.Funcs {
		funcs[i] = fn.ToNative()
	}

	return map[string]any{"funcs": funcs}
}

// ToNative converts a function declaration to native Go types.
func (fn *FuncDecl) ToNative() any {
	params := make([]any, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = map[string]any{
			"name": param.Name,
			"type": param.Type.Name,
			"pos":  param.Pos.String(),
		}
	}

	return map[string]any{
		"func":    fn.Name,
		"params":  params,
		"returns": fn.Result.Name,
		"body":    fn.Body.ToNative(),
		"pos":     fn.Pos.String(),
	}
}

// ToNative converts a block to the list of its statements in native form.
func (b *Block) ToNative() any {
	if b == nil {
		return nil
	}

	stmts := make([]any, len(b.Stmts))
	for i, stmt := range b.Stmts {
		stmts[i] = nodeToNative(stmt)
	}

	return stmts
}

// nodeToNative converts any statement or expression to native Go types.
// Each node becomes a map whose "node" key names its syntactic form.
func nodeToNative(n Node) any {
	switch n := n.(type) {
	case *VarDecl:
		return node(n, "var",
			"name", n.Name,
			"type", n.Type.Name,
			"init", nodeToNative(n.Init))

	case *Assign:
		return node(n, "assign",
			"name", n.Name,
			"op", n.Op,
			"value", nodeToNative(n.Value))

	case *While:
		return node(n, "while",
			"cond", nodeToNative(n.Cond),
			"body", n.Body.ToNative())

	case *If:
		m := node(n, "if",
			"cond", nodeToNative(n.Cond),
			"then", n.Then.ToNative())
		if n.Else != nil {
			m["else"] = n.Else.ToNative()
		}

		return m

	case *Return:
		m := node(n, "return")
		if n.Value != nil {
			m["value"] = nodeToNative(n.Value)
		}

		return m

	case *ExprStmt:
		return node(n, "expr", "x", nodeToNative(n.X))

	case *IntLit:
		return node(n, "int", "value", n.Value)

	case *StringLit:
		return node(n, "string", "value", n.Value)

	case *Ident:
		return node(n, "ident", "name", n.Name)

	case *Binary:
		return node(n, "binary",
			"op", n.Op,
			"left", nodeToNative(n.Left),
			"right", nodeToNative(n.Right))

	case *Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = nodeToNative(arg)
		}

		return node(n, "call", "name", n.Name, "args", args)

	case nil:
		return nil

	default:
		return map[string]any{"node": typeName(n)}
	}
}

// node builds the native map of a syntax node from alternating keys and
// values.
func node(n Node, kind string, kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2+2)
	m["node"] = kind
	m["pos"] = n.Position().String()

	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			m[key] = kv[i+1]
		}
	}

	return m
}

// TokenList is a lexed token sequence that can be dumped in several formats.
type TokenList []Token

// ToNative converts the tokens to native Go types.
func (ts TokenList) ToNative() []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = map[string]any{
			"kind": t.Kind.String(),
			"text": t.Text,
			"pos":  t.Pos.String(),
		}
	}

	return out
}

// MarshalJSON implements json.Marshaler for TokenList.
func (ts TokenList) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.ToNative())
}
