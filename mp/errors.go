package mp

import "fmt"

// LexError reports an invalid piece of source text.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

func lexErrorAt(pos Position, format string, args ...any) error {
	return &LexError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ParseErrorKind classifies parse failures.
type ParseErrorKind int

const (
	ParseUnexpectedToken ParseErrorKind = iota
	ParseUnexpectedEOF
	ParseInvalidSyntax
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseUnexpectedToken:
		return "unexpected token"
	case ParseUnexpectedEOF:
		return "unexpected end of input"
	case ParseInvalidSyntax:
		return "invalid syntax"
	}
	return "parse error"
}

// ParseError reports the first structural error found in a token stream.
type ParseError struct {
	Kind  ParseErrorKind
	Token Token
	Msg   string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseUnexpectedEOF:
		return fmt.Sprintf("parse error: %s: %s", e.Kind, e.Msg)
	case ParseUnexpectedToken:
		return fmt.Sprintf("parse error at %d:%d: %s: got %q", e.Token.Pos.Line, e.Token.Pos.Column, e.Msg, e.Token.Literal)
	default:
		return fmt.Sprintf("parse error at %d:%d: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Msg)
	}
}

// RuntimeErrorKind classifies evaluation failures.
type RuntimeErrorKind int

const (
	ErrUndefinedVariable RuntimeErrorKind = iota
	ErrTypeMismatch
	ErrInvalidOperation
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case ErrUndefinedVariable:
		return "undefined variable"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrInvalidOperation:
		return "invalid operation"
	}
	return "runtime error"
}

// RuntimeError aborts evaluation; the hosts (file runner, REPL) report it.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func undefinedVariable(name string) error {
	return &RuntimeError{Kind: ErrUndefinedVariable, Msg: name}
}

func typeMismatch(format string, args ...any) error {
	return &RuntimeError{Kind: ErrTypeMismatch, Msg: fmt.Sprintf(format, args...)}
}

func invalidOperation(format string, args ...any) error {
	return &RuntimeError{Kind: ErrInvalidOperation, Msg: fmt.Sprintf(format, args...)}
}
