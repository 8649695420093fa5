package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a program from source text.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	return Parse(ctx, Tokenize(src), opts...)
}

// Parse consumes tokens and builds the program's syntax tree.
//
// Parsing stops at the first error; no recovery is attempted. A lexical error
// yielded by tokens is returned as is.
func Parse(
	ctx context.Context,
	tokens iter.Seq2[Token, error],
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)

	next, stop := iter.Pull2(tokens)
	defer stop()

	p := &parser{next: next}

	prog, err := p.parseProgram()
	if p.lexErr != nil {
		return nil, p.lexErr
	}

	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("func_count", len(prog.Funcs)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	next   func() (Token, error, bool)
	buf    []Token // lookahead, buf[0] is the current token
	last   Position
	eof    bool
	lexErr error
}

// parseProgram parses: FuncDecl* EOF.
func (p *parser) parseProgram() (*Program, error) {
	prog := new(Program)

	for p.peek().Kind != TokenEOF {
		fn, err := p.parseFunc()
		if err != nil {
			return nil, err
		}

		prog.Funcs = append(prog.Funcs, fn)
	}

	return prog, nil
}

// parseFunc parses: subr IDENT ( Params ) returns TYPE Block.
func (p *parser) parseFunc() (*FuncDecl, error) {
	start, err := p.expect(TokenKeyword, KeywordSubr)
	if err != nil {
		return nil, err
	}

	name, err := p.expectKind(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenKeyword, KeywordReturns); err != nil {
		return nil, err
	}

	result, err := p.parseType()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Name:   name.Text,
		Params: params,
		Result: result,
		Body:   body,
		Pos:    start.Pos,
	}, nil
}

// parseParams parses: ( [TYPE IDENT (, TYPE IDENT)*] ).
func (p *parser) parseParams() ([]Param, error) {
	if _, err := p.expect(TokenPunct, "("); err != nil {
		return nil, err
	}

	params := make([]Param, 0)

	if p.accept(TokenPunct, ")") {
		return params, nil
	}

	for {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		name, err := p.expectKind(TokenIdentifier)
		if err != nil {
			return nil, err
		}

		params = append(params, Param{Name: name.Text, Type: typ, Pos: typ.Pos})

		if p.accept(TokenPunct, ",") {
			continue
		}

		if _, err := p.expect(TokenPunct, ")"); err != nil {
			return nil, err
		}

		return params, nil
	}
}

// parseType parses a primitive type keyword.
func (p *parser) parseType() (TypeName, error) {
	tok := p.peek()

	if kind, ok := p.typeAt(0); ok {
		p.advance()

		return TypeName{Name: tok.Text, Kind: kind, Pos: tok.Pos}, nil
	}

	return TypeName{}, p.unexpected(tok, "type")
}

// typeAt reports whether the token n positions ahead names a primitive type.
func (p *parser) typeAt(n int) (Kind, bool) {
	tok := p.peekN(n)
	if tok.Kind != TokenKeyword {
		return 0, false
	}

	return LookupType(tok.Text)
}

// parseBlock parses: { Stmt* }.
func (p *parser) parseBlock() (*Block, error) {
	start, err := p.expect(TokenPunct, "{")
	if err != nil {
		return nil, err
	}

	block := &Block{Pos: start.Pos}

	for {
		tok := p.peek()

		if tok.Is(TokenPunct, "}") {
			p.advance()

			block.End = tok.Pos

			return block, nil
		}

		if tok.Kind == TokenEOF {
			return nil, p.unexpected(tok, `"}"`)
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		block.Stmts = append(block.Stmts, stmt)
	}
}

// assignOps are the operators accepted by an assignment statement.
//
//nolint:gochecknoglobals
var assignOps = map[string]string{
	"=":  "",
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
}

// parseStmt parses one statement, trying each form in priority order.
func (p *parser) parseStmt() (Stmt, error) {
	tok := p.peek()

	if _, ok := p.typeAt(0); ok {
		return p.parseVarDecl()
	}

	if tok.Kind == TokenIdentifier {
		if op := p.peekN(1); op.Kind == TokenOperator {
			if _, ok := assignOps[op.Text]; ok {
				return p.parseAssign()
			}
		}
	}

	switch {
	case tok.Is(TokenKeyword, KeywordWhile):
		return p.parseWhile()

	case tok.Is(TokenKeyword, KeywordIf):
		return p.parseIf()

	case tok.Is(TokenKeyword, KeywordReturn):
		return p.parseReturn()
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenPunct, ";"); err != nil {
		return nil, err
	}

	return &ExprStmt{X: x, Pos: tok.Pos}, nil
}

// parseVarDecl parses: TYPE IDENT = Expr ;.
func (p *parser) parseVarDecl() (*VarDecl, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	name, err := p.expectKind(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenOperator, "="); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenPunct, ";"); err != nil {
		return nil, err
	}

	return &VarDecl{Name: name.Text, Type: typ, Init: value, Pos: typ.Pos}, nil
}

// parseAssign parses: IDENT AssignOp Expr ;.
func (p *parser) parseAssign() (*Assign, error) {
	name := p.advance()
	op := p.advance()

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenPunct, ";"); err != nil {
		return nil, err
	}

	return &Assign{Name: name.Text, Op: op.Text, Value: value, Pos: name.Pos}, nil
}

// parseCond parses: ( Expr ).
func (p *parser) parseCond() (Expr, error) {
	if _, err := p.expect(TokenPunct, "("); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenPunct, ")"); err != nil {
		return nil, err
	}

	return cond, nil
}

// parseWhile parses: while ( Expr ) Block.
func (p *parser) parseWhile() (*While, error) {
	start := p.advance()

	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body, Pos: start.Pos}, nil
}

// parseIf parses: if ( Expr ) Block [else Block].
func (p *parser) parseIf() (*If, error) {
	start := p.advance()

	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &If{Cond: cond, Then: then, Pos: start.Pos}

	if p.accept(TokenKeyword, KeywordElse) {
		stmt.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

// parseReturn parses: return [Expr] ;.
func (p *parser) parseReturn() (*Return, error) {
	start := p.advance()

	stmt := &Return{Pos: start.Pos}

	if p.accept(TokenPunct, ";") {
		return stmt, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenPunct, ";"); err != nil {
		return nil, err
	}

	stmt.Value = value

	return stmt, nil
}

// Binary operator precedence levels, lowest first. Every level is
// left-associative.
//
//nolint:gochecknoglobals
var precedence = [][]string{
	{"==", "<", ">"},
	{"+", "-"},
	{"*", "/"},
}

// parseExpr parses an expression at the lowest precedence level.
func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(0)
}

// parseBinary parses a left-associative chain of operators at level.
func (p *parser) parseBinary(level int) (Expr, error) {
	if level == len(precedence) {
		return p.parsePrimary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != TokenOperator || !slices.Contains(precedence[level], tok.Text) {
			return left, nil
		}

		p.advance()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: tok.Text, Left: left, Right: right, Pos: tok.Pos}
	}
}

// parsePrimary parses: INT | STRING | IDENT | IDENT ( Args ) | ( Expr ).
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenInt:
		p.advance()

		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, ErrParse.WithPosition(tok.Pos).
				With(slog.String("literal", tok.Text)).
				Wrap(err)
		}

		return &IntLit{Value: v, Pos: tok.Pos}, nil

	case TokenString:
		p.advance()

		s, err := Unquote(tok.Text)
		if err != nil {
			return nil, WrapError(err).WithPosition(tok.Pos)
		}

		return &StringLit{Value: s, Pos: tok.Pos}, nil

	case TokenIdentifier:
		p.advance()

		if p.peek().Is(TokenPunct, "(") {
			return p.parseCall(tok)
		}

		return &Ident{Name: tok.Text, Pos: tok.Pos}, nil

	case TokenPunct:
		if tok.Text == "(" {
			p.advance()

			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(TokenPunct, ")"); err != nil {
				return nil, err
			}

			return x, nil
		}
	}

	return nil, p.unexpected(tok, "expression")
}

// parseCall parses the argument list following a callee identifier.
func (p *parser) parseCall(name Token) (*Call, error) {
	p.advance() // skip '('

	call := &Call{Name: name.Text, Args: make([]Expr, 0), Pos: name.Pos}

	if p.accept(TokenPunct, ")") {
		return call, nil
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		if p.accept(TokenPunct, ",") {
			continue
		}

		if _, err := p.expect(TokenPunct, ")"); err != nil {
			return nil, err
		}

		return call, nil
	}
}

// Helper methods

// peekN returns the token n positions past the current one without
// consuming anything. Past the end of input it returns EOF.
func (p *parser) peekN(n int) Token {
	for len(p.buf) <= n && !p.eof {
		tok, err, ok := p.next()

		switch {
		case !ok:
			p.eof = true

		case err != nil:
			p.lexErr = err
			p.eof = true

		default:
			p.buf = append(p.buf, tok)
			p.last = tok.Pos

			if tok.Kind == TokenEOF {
				p.eof = true
			}
		}
	}

	if n < len(p.buf) {
		return p.buf[n]
	}

	return Token{Kind: TokenEOF, Pos: p.last}
}

func (p *parser) peek() Token { return p.peekN(0) }

// advance consumes and returns the current token.
func (p *parser) advance() Token {
	tok := p.peek()

	if len(p.buf) > 0 && tok.Kind != TokenEOF {
		p.buf = p.buf[1:]
	}

	return tok
}

// accept consumes the current token if it matches kind and text.
func (p *parser) accept(kind TokenKind, text string) bool {
	if p.peek().Is(kind, text) {
		p.advance()

		return true
	}

	return false
}

// expect consumes the current token if it matches kind and text, otherwise
// it reports a parse error.
func (p *parser) expect(kind TokenKind, text string) (Token, error) {
	tok := p.peek()
	if !tok.Is(kind, text) {
		return Token{}, p.unexpected(tok, strconv.Quote(text))
	}

	return p.advance(), nil
}

// expectKind consumes the current token if it has the given kind.
func (p *parser) expectKind(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, p.unexpected(tok, kind.String())
	}

	return p.advance(), nil
}

// unexpected reports that tok was found where expected was required.
func (p *parser) unexpected(tok Token, expected string) error {
	return ErrParse.WithPosition(tok.Pos).
		With(
			slog.String("expected", expected),
			slog.String("found", tok.String()),
		)
}
