package lang

import (
	"iter"
)

// Program is the root of the abstract syntax tree: an ordered sequence of
// function declarations. A Program is immutable once parsed.
type Program struct {
	Funcs []*FuncDecl
}

// Func returns the first function declared with the given name.
func (p *Program) Func(name string) (*FuncDecl, bool) {
	for _, fn := range p.Funcs {
		if fn.Name == name {
			return fn, true
		}
	}

	return nil, false
}

// All returns an iterator over the program's function declarations.
func (p *Program) All() iter.Seq[*FuncDecl] {
	return func(yield func(*FuncDecl) bool) {
		for _, fn := range p.Funcs {
			if !yield(fn) {
				return
			}
		}
	}
}

// TypeName is a declared type as written in source.
type TypeName struct {
	Name string
	Kind Kind
	Pos  Position
}

// Param is a function parameter declaration: TYPE IDENT.
type Param struct {
	Name string
	Type TypeName
	Pos  Position
}

// FuncDecl is a function declaration:
// subr IDENT ( Params ) returns TYPE Block.
type FuncDecl struct {
	Name   string
	Params []Param
	Result TypeName
	Body   *Block
	Pos    Position
}

// Block is a braced sequence of statements; it defines one lexical scope.
type Block struct {
	Stmts []Stmt
	Pos   Position
	End   Position // position of the closing brace
}

// Node is implemented by every statement and expression.
type Node interface {
	Position() Position
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Statements

// VarDecl declares and initializes a local variable: TYPE IDENT = Expr ;.
type VarDecl struct {
	Name string
	Type TypeName
	Init Expr
	Pos  Position
}

// Assign stores into an existing variable: IDENT Op Expr ;.
// Op is "=" or one of the compound operators "+=", "-=", "*=", "/=".
type Assign struct {
	Name  string
	Op    string
	Value Expr
	Pos   Position
}

// While repeats Body while Cond is non-zero.
type While struct {
	Cond Expr
	Body *Block
	Pos  Position
}

// If runs Then when Cond is non-zero, otherwise Else if present.
type If struct {
	Cond Expr
	Then *Block
	Else *Block // nil when absent
	Pos  Position
}

// Return exits the enclosing function. Value is nil for a bare return.
type Return struct {
	Value Expr
	Pos   Position
}

// ExprStmt evaluates an expression for its side effect.
type ExprStmt struct {
	X   Expr
	Pos Position
}

func (s *VarDecl) Position() Position  { return s.Pos }
func (s *Assign) Position() Position   { return s.Pos }
func (s *While) Position() Position    { return s.Pos }
func (s *If) Position() Position       { return s.Pos }
func (s *Return) Position() Position   { return s.Pos }
func (s *ExprStmt) Position() Position { return s.Pos }

func (*VarDecl) stmtNode()  {}
func (*Assign) stmtNode()   {}
func (*While) stmtNode()    {}
func (*If) stmtNode()       {}
func (*Return) stmtNode()   {}
func (*ExprStmt) stmtNode() {}

// Expressions

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   Position
}

// StringLit is a string literal with escape sequences resolved.
type StringLit struct {
	Value string
	Pos   Position
}

// Ident is a reference to a variable.
type Ident struct {
	Name string
	Pos  Position
}

// Binary applies an infix operator to two operands.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Position // position of the operator
}

// Call invokes a user function or a built-in by name.
type Call struct {
	Name string
	Args []Expr
	Pos  Position
}

func (e *IntLit) Position() Position    { return e.Pos }
func (e *StringLit) Position() Position { return e.Pos }
func (e *Ident) Position() Position     { return e.Pos }
func (e *Binary) Position() Position    { return e.Pos }
func (e *Call) Position() Position      { return e.Pos }

func (*IntLit) exprNode()    {}
func (*StringLit) exprNode() {}
func (*Ident) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Call) exprNode()      {}
