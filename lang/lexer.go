package lang

import (
	"iter"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// Lexer converts source text into tokens one at a time.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		input: []byte(src),
		line:  1,
		col:   1,
	}
}

// Tokenize returns a lazy sequence of the tokens in src, ending with a single
// [TokenEOF] token. If a lexical error occurs, it is yielded with a zero
// Token and the sequence ends.
//
// The sequence is restartable: every range over it lexes src from the
// beginning.
func Tokenize(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := NewLexer(src)

		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Tokens materializes every token in src, including the trailing EOF.
func Tokens(src string) ([]Token, error) {
	var toks []Token

	for tok, err := range Tokenize(src) {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// Next returns the next token. Once EOF has been returned, every subsequent
// call returns EOF again.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	ch := l.peek()

	switch {
	case isIdentifierStart(ch):
		return l.lexWord(pos), nil

	case isDigit(ch):
		return l.lexInt(pos)

	case ch == '"':
		return l.lexString(pos)
	}

	return l.lexSymbol(pos)
}

func (l *Lexer) lexWord(pos Position) Token {
	start := l.pos

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	kind := TokenIdentifier
	if IsKeyword(text) {
		kind = TokenKeyword
	}

	return Token{Kind: kind, Text: text, Pos: pos}
}

func (l *Lexer) lexInt(pos Position) (Token, error) {
	start := l.pos

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return Token{}, ErrLex.WithPosition(pos).
			With(slog.String("literal", text)).
			Wrap(err)
	}

	return Token{Kind: TokenInt, Text: text, Pos: pos}, nil
}

func (l *Lexer) lexString(pos Position) (Token, error) {
	start := l.pos

	l.advance() // skip opening quote

	for !l.eof() {
		ch := l.peek()

		switch ch {
		case '\n':
			return Token{}, ErrLex.WithPosition(pos).
				With(slog.String("reason", "unterminated string"))

		case '\\':
			escPos := l.position()

			l.advance()

			if l.eof() {
				return Token{}, ErrLex.WithPosition(pos).
					With(slog.String("reason", "unterminated string"))
			}

			if _, ok := escapes[l.input[l.pos]]; !ok {
				return Token{}, ErrLex.WithPosition(escPos).
					With(slog.String("reason", "unknown escape sequence"),
						slog.String("escape", `\`+string(l.peek())))
			}

			l.advance()

		case '"':
			l.advance()

			return Token{
				Kind: TokenString,
				Text: string(l.input[start:l.pos]),
				Pos:  pos,
			}, nil

		default:
			l.advance()
		}
	}

	return Token{}, ErrLex.WithPosition(pos).
		With(slog.String("reason", "unterminated string"))
}

// operators lists multi-character operators before their one-character
// prefixes so the longest match wins.
//
//nolint:gochecknoglobals
var operators = []string{
	"==", "+=", "-=", "*=", "/=",
	"+", "-", "*", "/", "<", ">", "=",
}

const punctuation = "(){},;"

func (l *Lexer) lexSymbol(pos Position) (Token, error) {
	for _, op := range operators {
		if l.peekN(len(op)) == op {
			for range len(op) {
				l.advance()
			}

			return Token{Kind: TokenOperator, Text: op, Pos: pos}, nil
		}
	}

	ch := l.peek()

	for _, p := range punctuation {
		if ch == p {
			l.advance()

			return Token{Kind: TokenPunct, Text: string(ch), Pos: pos}, nil
		}
	}

	return Token{}, ErrLex.WithPosition(pos).
		With(slog.String("reason", "unrecognized character"),
			slog.String("char", strconv.QuoteRune(ch)))
}

// escapes maps the byte following a backslash to its resolved byte.
//
//nolint:gochecknoglobals
var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'"':  '"',
}

// Unquote resolves the quotes and escape sequences of a string literal token
// text produced by the lexer. Bytes outside escape sequences are copied
// unchanged, including those that are not valid UTF-8.
func Unquote(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", ErrLex.With(slog.String("literal", text))
	}

	body := text[1 : len(text)-1]
	out := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			out = append(out, body[i])

			continue
		}

		i++
		if i >= len(body) {
			return "", ErrLex.With(slog.String("literal", text))
		}

		b, ok := escapes[body[i]]
		if !ok {
			return "", ErrLex.With(
				slog.String("literal", text),
				slog.String("escape", `\`+string(body[i:i+1])),
			)
		}

		out = append(out, b)
	}

	return string(out), nil
}

// Helper methods

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) peekN(n int) string {
	if l.pos+n > len(l.input) {
		return string(l.input[l.pos:])
	}

	return string(l.input[l.pos : l.pos+n])
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()

		case ch == '/' && l.peekN(2) == "//":
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
