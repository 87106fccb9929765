package mp

import (
	"strconv"
	"strings"
)

// Format reprints a source file in canonical form. Formatting round-trips:
// parsing the output yields a structurally identical program, and formatting
// the output again is a no-op.
func Format(source string) (string, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return "", err
	}
	program, err := Parse(tokens)
	if err != nil {
		return "", err
	}
	return program.String(), nil
}

// String renders the program back to source form.
func (p *Program) String() string {
	var b strings.Builder
	for _, stmt := range p.Statements {
		writeStatement(&b, stmt, 0)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeStatement(b *strings.Builder, stmt Statement, indent int) {
	switch s := stmt.(type) {
	case *ExprStmt:
		writeExpression(b, s.Expr, indent)
		b.WriteByte(';')
	case *ResultStmt:
		writeExpression(b, s.Expr, indent)
	case *LetStmt:
		b.WriteString("let ")
		b.WriteString(s.Name)
		b.WriteString(" = ")
		writeExpression(b, s.Value, indent)
	case *FunctionStmt:
		b.WriteString("fn ")
		b.WriteString(s.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(s.Params, ", "))
		b.WriteString(") ")
		writeExpression(b, s.Body, indent)
	case *ReturnStmt:
		b.WriteString("return")
		if s.Value != nil {
			b.WriteByte(' ')
			writeExpression(b, s.Value, indent)
		}
	}
}

func writeExpression(b *strings.Builder, expr Expression, indent int) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		b.WriteString(strconv.FormatInt(e.Value, 10))
	case *FloatLiteral:
		b.WriteString(formatFloat(e.Value))
	case *StringLiteral:
		b.WriteString(quoteString(e.Value))
	case *BoolLiteral:
		b.WriteString(strconv.FormatBool(e.Value))
	case *ArrayLiteral:
		b.WriteByte('[')
		for i, elem := range e.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, elem, indent)
		}
		b.WriteByte(']')
	case *ObjectLiteral:
		b.WriteByte('{')
		for i, entry := range e.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(objectKey(entry.Key))
			b.WriteString(": ")
			writeExpression(b, entry.Value, indent)
		}
		b.WriteByte('}')
	case *Identifier:
		b.WriteString(e.Name)
	case *UnaryExpr:
		b.WriteByte('-')
		writeOperand(b, e.Right, precUnary, indent)
	case *BinaryExpr:
		if e.Operator == tokenAssign {
			writeExpression(b, e.Left, indent)
			b.WriteString(" = ")
			writeExpression(b, e.Right, indent)
			return
		}
		prec := operatorPrecedence(e.Operator)
		writeOperand(b, e.Left, prec, indent)
		b.WriteByte(' ')
		b.WriteString(string(e.Operator))
		b.WriteByte(' ')
		// one extra level on the right keeps left-associativity explicit
		writeOperand(b, e.Right, prec+1, indent)
	case *CallExpr:
		b.WriteString(e.Name)
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, arg, indent)
		}
		b.WriteByte(')')
	case *IfExpr:
		b.WriteString("if ")
		writeExpression(b, e.Condition, indent)
		b.WriteByte(' ')
		writeExpression(b, e.Then, indent)
		if e.Else != nil {
			b.WriteString(" else ")
			writeExpression(b, e.Else, indent)
		}
	case *WhileExpr:
		b.WriteString("while ")
		writeExpression(b, e.Condition, indent)
		b.WriteByte(' ')
		writeBlock(b, e.Body, indent)
	case *BlockExpr:
		writeBlock(b, e.Statements, indent)
	}
}

// writeOperand parenthesizes a subexpression whose precedence is too low for
// the position it is printed in.
func writeOperand(b *strings.Builder, expr Expression, minPrec int, indent int) {
	if expressionPrecedence(expr) < minPrec {
		b.WriteByte('(')
		writeExpression(b, expr, indent)
		b.WriteByte(')')
		return
	}
	writeExpression(b, expr, indent)
}

func writeBlock(b *strings.Builder, stmts []Statement, indent int) {
	b.WriteByte('{')
	if len(stmts) == 0 {
		b.WriteByte('}')
		return
	}
	b.WriteByte('\n')
	for _, stmt := range stmts {
		for i := 0; i <= indent; i++ {
			b.WriteByte('\t')
		}
		writeStatement(b, stmt, indent+1)
		b.WriteByte('\n')
	}
	for i := 0; i < indent; i++ {
		b.WriteByte('\t')
	}
	b.WriteByte('}')
}

const (
	precAssign = iota + 1
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precPrimary
)

func operatorPrecedence(op TokenType) int {
	switch op {
	case tokenAssign:
		return precAssign
	case tokenEQ, tokenNotEQ:
		return precEquality
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return precComparison
	case tokenPlus, tokenMinus:
		return precTerm
	case tokenAsterisk, tokenSlash:
		return precFactor
	}
	return precPrimary
}

func expressionPrecedence(expr Expression) int {
	switch e := expr.(type) {
	case *BinaryExpr:
		return operatorPrecedence(e.Operator)
	case *UnaryExpr:
		return precUnary
	case *IfExpr, *WhileExpr:
		return precAssign
	}
	return precPrimary
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func objectKey(key string) string {
	if isIdentName(key) {
		return key
	}
	return quoteString(key)
}

func isIdentName(s string) bool {
	if s == "" || lookupIdent(s) != tokenIdent {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}
		if !isIdentifierRune(r) {
			return false
		}
	}
	return true
}
