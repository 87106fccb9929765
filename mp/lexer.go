package mp

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize scans the whole source and returns its token stream, always
// terminated by an EOF token. Newlines and comments are real tokens; the
// parser decides what to do with them.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) nextToken() (Token, error) {
	l.skipWhitespace()

	pos := Position{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		return Token{Type: tokenEOF, Pos: pos}, nil
	case '\n':
		l.readRune()
		return Token{Type: tokenNewline, Literal: "\n", Pos: pos}, nil
	case '+':
		return l.single(tokenPlus), nil
	case '-':
		return l.single(tokenMinus), nil
	case '*':
		return l.single(tokenAsterisk), nil
	case '/':
		switch l.peekRune() {
		case '/':
			return l.readLineComment(), nil
		case '*':
			return l.readBlockComment()
		}
		return l.single(tokenSlash), nil
	case '(':
		return l.single(tokenLParen), nil
	case ')':
		return l.single(tokenRParen), nil
	case '{':
		return l.single(tokenLBrace), nil
	case '}':
		return l.single(tokenRBrace), nil
	case '[':
		return l.single(tokenLBracket), nil
	case ']':
		return l.single(tokenRBracket), nil
	case ',':
		return l.single(tokenComma), nil
	case ';':
		return l.single(tokenSemicolon), nil
	case ':':
		return l.single(tokenColon), nil
	case '=':
		if l.peekRune() == '=' {
			return l.double(tokenEQ), nil
		}
		return l.single(tokenAssign), nil
	case '!':
		if l.peekRune() == '=' {
			return l.double(tokenNotEQ), nil
		}
		return Token{}, lexErrorAt(pos, "unexpected character %q", l.ch)
	case '>':
		if l.peekRune() == '=' {
			return l.double(tokenGTE), nil
		}
		return l.single(tokenGT), nil
	case '<':
		if l.peekRune() == '=' {
			return l.double(tokenLTE), nil
		}
		return l.single(tokenLT), nil
	case '"':
		return l.readString(pos)
	}

	switch {
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		return Token{Type: lookupIdent(literal), Literal: literal, Pos: pos}, nil
	case unicode.IsDigit(l.ch):
		return l.readNumber(pos)
	}

	ch := l.ch
	l.readRune()
	return Token{}, lexErrorAt(pos, "unexpected character %q", ch)
}

func (l *lexer) single(tt TokenType) Token {
	tok := Token{Type: tt, Literal: string(tt), Pos: Position{Line: l.line, Column: l.column}}
	l.readRune()
	return tok
}

func (l *lexer) double(tt TokenType) Token {
	tok := Token{Type: tt, Literal: string(tt), Pos: Position{Line: l.line, Column: l.column}}
	l.readRune()
	l.readRune()
	return tok
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readRune()
	}
}

func (l *lexer) readLineComment() Token {
	pos := Position{Line: l.line, Column: l.column}
	l.readRune()
	l.readRune()
	start := l.currentOffset()
	for l.ch != 0 && l.ch != '\n' {
		l.readRune()
	}
	return Token{Type: tokenComment, Literal: l.input[start:l.currentOffset()], Pos: pos}
}

func (l *lexer) readBlockComment() (Token, error) {
	pos := Position{Line: l.line, Column: l.column}
	l.readRune()
	l.readRune()
	start := l.currentOffset()
	for {
		if l.ch == 0 {
			return Token{}, lexErrorAt(pos, "unclosed block comment")
		}
		if l.ch == '*' && l.peekRune() == '/' {
			end := l.currentOffset()
			l.readRune()
			l.readRune()
			return Token{Type: tokenComment, Literal: l.input[start:end], Pos: pos}, nil
		}
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber(pos Position) (Token, error) {
	var sb strings.Builder
	hasDot := false

	sb.WriteRune(l.ch)
	for {
		r := l.peekRune()
		switch {
		case r == '.':
			if hasDot {
				l.readRune()
				return Token{}, lexErrorAt(pos, "invalid number literal %q", sb.String()+".")
			}
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			literal := sb.String()
			l.readRune()
			if hasDot {
				return Token{Type: tokenFloat, Literal: literal, Pos: pos}, nil
			}
			if _, err := strconv.ParseInt(literal, 10, 64); err != nil {
				return Token{}, lexErrorAt(pos, "invalid number literal %q", literal)
			}
			return Token{Type: tokenInt, Literal: literal, Pos: pos}, nil
		}
	}
}

func (l *lexer) readString(pos Position) (Token, error) {
	var sb strings.Builder

	for {
		l.readRune()
		switch l.ch {
		case 0, '\n':
			return Token{}, lexErrorAt(pos, "unclosed string")
		case '"':
			l.readRune()
			return Token{Type: tokenString, Literal: sb.String(), Pos: pos}, nil
		case '\\':
			next := l.peekRune()
			switch next {
			case '"', '\\':
				l.readRune()
				sb.WriteRune(next)
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			case 'r':
				l.readRune()
				sb.WriteByte('\r')
			default:
				return Token{}, lexErrorAt(pos, "invalid escape sequence \\%c", next)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
