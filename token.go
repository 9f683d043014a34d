package wkt

import (
	"fmt"
	"unicode/utf8"
)

// TokenType is the kind of a lexical token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenWord             // geometry keyword, dimension tag, or EMPTY
	TokenNumber           // numeric literal, raw text in Token.Text
	TokenComma
	TokenLParen
	TokenRParen
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return "word"
	case TokenNumber:
		return "number"
	case TokenComma:
		return "','"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Token is a single lexical token. Pos is the byte offset of its first
// character within the input.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

// scanner produces tokens lazily, one per request, with a single token of
// lookahead. The first lexical error stops the scan; nothing past the
// offending character is examined.
type scanner struct {
	input string
	pos   int

	tok   Token // lookahead, valid when ready
	err   error
	ready bool
}

func newScanner(input string) *scanner {
	return &scanner{input: input}
}

// Peek returns the next token without consuming it.
func (s *scanner) Peek() (Token, error) {
	if !s.ready {
		s.tok, s.err = s.scan()
		s.ready = true
	}
	return s.tok, s.err
}

// Next consumes and returns the next token.
func (s *scanner) Next() (Token, error) {
	tok, err := s.Peek()
	s.ready = false
	return tok, err
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDelim reports whether c may legally follow a numeric literal.
func isDelim(c byte) bool {
	return isSpace(c) || c == ',' || c == '(' || c == ')'
}

func (s *scanner) scan() (Token, error) {
	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.input) {
		return Token{Type: TokenEOF, Pos: s.pos}, nil
	}

	start := s.pos
	switch c := s.input[s.pos]; {
	case c == ',':
		s.pos++
		return Token{Type: TokenComma, Text: ",", Pos: start}, nil
	case c == '(':
		s.pos++
		return Token{Type: TokenLParen, Text: "(", Pos: start}, nil
	case c == ')':
		s.pos++
		return Token{Type: TokenRParen, Text: ")", Pos: start}, nil
	case isLetter(c):
		for s.pos < len(s.input) && isLetter(s.input[s.pos]) {
			s.pos++
		}
		return Token{Type: TokenWord, Text: s.input[start:s.pos], Pos: start}, nil
	case isDigit(c) || c == '+' || c == '-' || c == '.':
		return s.scanNumber()
	default:
		r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
		return Token{}, &ParseError{
			Pos: start,
			Err: fmt.Errorf("%w %q", ErrUnexpectedCharacter, r),
		}
	}
}

// scanNumber consumes a maximal match of
//
//	[+-]? digit+ ('.' digit+)? ([eE] [+-]? digit+)?
//
// Bare signs, bare decimal points, missing exponent digits, and literals
// immediately followed by anything other than a delimiter are all rejected.
func (s *scanner) scanNumber() (Token, error) {
	start := s.pos

	if c := s.input[s.pos]; c == '+' || c == '-' {
		s.pos++
	}
	if s.digits() == 0 {
		return s.badNumber(start, "expected digits")
	}
	if s.pos < len(s.input) && s.input[s.pos] == '.' {
		s.pos++
		if s.digits() == 0 {
			return s.badNumber(start, "expected digits after decimal point")
		}
	}
	if s.pos < len(s.input) && (s.input[s.pos] == 'e' || s.input[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.input) && (s.input[s.pos] == '+' || s.input[s.pos] == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			return s.badNumber(start, "expected digits in exponent")
		}
	}
	if s.pos < len(s.input) && !isDelim(s.input[s.pos]) {
		return s.badNumber(start, "trailing garbage")
	}

	return Token{Type: TokenNumber, Text: s.input[start:s.pos], Pos: start}, nil
}

func (s *scanner) digits() int {
	n := 0
	for s.pos < len(s.input) && isDigit(s.input[s.pos]) {
		s.pos++
		n++
	}
	return n
}

func (s *scanner) badNumber(start int, why string) (Token, error) {
	// Consume through the malformed literal so the reported span covers it.
	for s.pos < len(s.input) && !isDelim(s.input[s.pos]) {
		s.pos++
	}
	return Token{}, &ParseError{
		Pos: start,
		Err: fmt.Errorf("%w %q: %s", ErrInvalidNumber, s.input[start:s.pos], why),
	}
}
