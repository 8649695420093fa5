package lang

import "strconv"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF        TokenKind = iota // end of input
	TokenIdentifier                  // identifier
	TokenInt                         // integer literal
	TokenString                      // string literal
	TokenKeyword                     // keyword
	TokenOperator                    // operator
	TokenPunct                       // punctuation
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"

	case TokenIdentifier:
		return "identifier"

	case TokenInt:
		return "integer literal"

	case TokenString:
		return "string literal"

	case TokenKeyword:
		return "keyword"

	case TokenOperator:
		return "operator"

	case TokenPunct:
		return "punctuation"

	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Keywords recognized by the lexer.
const (
	KeywordSubr    = "subr"
	KeywordReturns = "returns"
	KeywordInt     = "int"
	KeywordWhile   = "while"
	KeywordIf      = "if"
	KeywordElse    = "else"
	KeywordReturn  = "return"
)

//nolint:gochecknoglobals
var keywords = map[string]struct{}{
	KeywordSubr:    {},
	KeywordReturns: {},
	KeywordInt:     {},
	KeywordWhile:   {},
	KeywordIf:      {},
	KeywordElse:    {},
	KeywordReturn:  {},
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Token is the smallest lexical unit produced from source text.
//
// Text is the exact source text of the token; string literals keep their
// quotes and escape sequences verbatim.
type Token struct {
	Kind TokenKind `json:"kind"     yaml:"kind"`
	Text string    `json:"text"     yaml:"text"`
	Pos  Position  `json:"position" yaml:"position"`
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// String returns a short human-readable description of the token.
func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}

	return t.Kind.String() + " " + strconv.Quote(t.Text)
}
