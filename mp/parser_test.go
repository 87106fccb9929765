package mp

import (
	"errors"
	"testing"
)

func parseSource(t *testing.T, source string) *Program {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func parseFailure(t *testing.T, source string) *ParseError {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	return parseErr
}

func TestParsePrecedence(t *testing.T) {
	program := parseSource(t, "1 + 2 * 3")
	if got, want := program.String(), "1 + 2 * 3\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	program = parseSource(t, "(1 + 2) * 3")
	if got, want := program.String(), "(1 + 2) * 3\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseComparisonBindsLooserThanAddition(t *testing.T) {
	program := parseSource(t, "1 + 2 < 3 * 4")
	result, ok := program.Statements[0].(*ResultStmt)
	if !ok {
		t.Fatalf("expected result statement, got %T", program.Statements[0])
	}
	bin, ok := result.Expr.(*BinaryExpr)
	if !ok || bin.Operator != tokenLT {
		t.Fatalf("expected < at the root, got %#v", result.Expr)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	program := parseSource(t, "x = y = 1;")
	stmt, ok := program.Statements[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Statements[0])
	}
	outer, ok := stmt.Expr.(*BinaryExpr)
	if !ok || outer.Operator != tokenAssign {
		t.Fatalf("expected assignment, got %#v", stmt.Expr)
	}
	inner, ok := outer.Right.(*BinaryExpr)
	if !ok || inner.Operator != tokenAssign {
		t.Fatalf("expected nested assignment on the right, got %#v", outer.Right)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	parseErr := parseFailure(t, "1 + 2 = 3")
	if parseErr.Kind != ParseInvalidSyntax {
		t.Fatalf("got kind %v want invalid syntax", parseErr.Kind)
	}
}

func TestParseSemicolonMakesExpressionStatement(t *testing.T) {
	program := parseSource(t, "1;\n2\n")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ExprStmt); !ok {
		t.Fatalf("statement 0: expected expression statement, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[1].(*ResultStmt); !ok {
		t.Fatalf("statement 1: expected result statement, got %T", program.Statements[1])
	}
}

func TestParseNewlineBeforeMoreCodeMakesExpressionStatement(t *testing.T) {
	program := parseSource(t, "1\n2")
	if _, ok := program.Statements[0].(*ExprStmt); !ok {
		t.Fatalf("statement 0: expected expression statement, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[1].(*ResultStmt); !ok {
		t.Fatalf("statement 1: expected result statement, got %T", program.Statements[1])
	}
}

func TestParseTrailingBlankLinesStillMakeResultStatement(t *testing.T) {
	program := parseSource(t, "1\n\n\n")
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ResultStmt); !ok {
		t.Fatalf("expected result statement, got %T", program.Statements[0])
	}
}

func TestParseBlockTailStatement(t *testing.T) {
	program := parseSource(t, "fn f() {\n    1;\n    2\n}")
	fn, ok := program.Statements[0].(*FunctionStmt)
	if !ok {
		t.Fatalf("expected function statement, got %T", program.Statements[0])
	}
	block, ok := fn.Body.(*BlockExpr)
	if !ok {
		t.Fatalf("expected block body, got %T", fn.Body)
	}
	if _, ok := block.Statements[0].(*ExprStmt); !ok {
		t.Fatalf("block statement 0: expected expression statement, got %T", block.Statements[0])
	}
	if _, ok := block.Statements[1].(*ResultStmt); !ok {
		t.Fatalf("block statement 1: expected result statement, got %T", block.Statements[1])
	}
}

func TestParseMissingSeparator(t *testing.T) {
	parseErr := parseFailure(t, "1 2")
	if parseErr.Kind != ParseInvalidSyntax {
		t.Fatalf("got kind %v want invalid syntax", parseErr.Kind)
	}
}

func TestParseLetStatement(t *testing.T) {
	program := parseSource(t, "let answer = 40 + 2")
	let, ok := program.Statements[0].(*LetStmt)
	if !ok {
		t.Fatalf("expected let statement, got %T", program.Statements[0])
	}
	if let.Name != "answer" {
		t.Fatalf("got name %q want answer", let.Name)
	}
}

func TestParseLetRequiresName(t *testing.T) {
	parseErr := parseFailure(t, "let = 5")
	if parseErr.Kind != ParseUnexpectedToken {
		t.Fatalf("got kind %v want unexpected token", parseErr.Kind)
	}
}

func TestParseFunctionStatement(t *testing.T) {
	program := parseSource(t, "fn add(a, b) {\n    a + b\n}")
	fn, ok := program.Statements[0].(*FunctionStmt)
	if !ok {
		t.Fatalf("expected function statement, got %T", program.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Fatalf("unexpected function header: %q %v", fn.Name, fn.Params)
	}
}

func TestParseFunctionWithoutParams(t *testing.T) {
	program := parseSource(t, "fn nop() {\n    1\n}")
	fn := program.Statements[0].(*FunctionStmt)
	if len(fn.Params) != 0 {
		t.Fatalf("expected no params, got %v", fn.Params)
	}
}

func TestParseReturn(t *testing.T) {
	program := parseSource(t, "fn f() {\n    return 1 + 2;\n    return;\n}")
	fn := program.Statements[0].(*FunctionStmt)
	block := fn.Body.(*BlockExpr)
	first, ok := block.Statements[0].(*ReturnStmt)
	if !ok || first.Value == nil {
		t.Fatalf("expected return with value, got %#v", block.Statements[0])
	}
	second, ok := block.Statements[1].(*ReturnStmt)
	if !ok || second.Value != nil {
		t.Fatalf("expected bare return, got %#v", block.Statements[1])
	}
}

func TestParseCallExpression(t *testing.T) {
	program := parseSource(t, "add(1, 2 * 3)")
	result := program.Statements[0].(*ResultStmt)
	call, ok := result.Expr.(*CallExpr)
	if !ok {
		t.Fatalf("expected call, got %T", result.Expr)
	}
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected call: %q with %d args", call.Name, len(call.Args))
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseSource(t, "if x < 1 {\n    1\n} else {\n    2\n}")
	result := program.Statements[0].(*ResultStmt)
	ifExpr, ok := result.Expr.(*IfExpr)
	if !ok {
		t.Fatalf("expected if expression, got %T", result.Expr)
	}
	if ifExpr.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseWhile(t *testing.T) {
	program := parseSource(t, "while x < 3 {\n    x = x + 1\n}")
	result := program.Statements[0].(*ResultStmt)
	while, ok := result.Expr.(*WhileExpr)
	if !ok {
		t.Fatalf("expected while expression, got %T", result.Expr)
	}
	if len(while.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(while.Body))
	}
	if _, ok := while.Body[0].(*ResultStmt); !ok {
		t.Fatalf("expected result statement in body, got %T", while.Body[0])
	}
}

func TestParseObjectLiteralVersusBlock(t *testing.T) {
	program := parseSource(t, "{a: 1, \"b c\": 2}")
	result := program.Statements[0].(*ResultStmt)
	obj, ok := result.Expr.(*ObjectLiteral)
	if !ok {
		t.Fatalf("expected object literal, got %T", result.Expr)
	}
	if len(obj.Entries) != 2 || obj.Entries[0].Key != "a" || obj.Entries[1].Key != "b c" {
		t.Fatalf("unexpected entries: %#v", obj.Entries)
	}

	program = parseSource(t, "{\n    1\n}")
	result = program.Statements[0].(*ResultStmt)
	if _, ok := result.Expr.(*BlockExpr); !ok {
		t.Fatalf("expected block, got %T", result.Expr)
	}

	program = parseSource(t, "{}")
	result = program.Statements[0].(*ResultStmt)
	if _, ok := result.Expr.(*ObjectLiteral); !ok {
		t.Fatalf("expected empty object literal, got %T", result.Expr)
	}
}

func TestParseObjectDuplicateKeysKept(t *testing.T) {
	program := parseSource(t, "{a: 1, a: 2}")
	result := program.Statements[0].(*ResultStmt)
	obj := result.Expr.(*ObjectLiteral)
	if len(obj.Entries) != 2 {
		t.Fatalf("expected both entries kept, got %d", len(obj.Entries))
	}
}

func TestParseArrayLiteral(t *testing.T) {
	program := parseSource(t, "[1, 2 + 3, [4]]")
	result := program.Statements[0].(*ResultStmt)
	arr, ok := result.Expr.(*ArrayLiteral)
	if !ok {
		t.Fatalf("expected array literal, got %T", result.Expr)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}
}

func TestParseCommentsAreIgnored(t *testing.T) {
	program := parseSource(t, "// heading\n1 + /* inline */ 2")
	result := program.Statements[0].(*ResultStmt)
	bin, ok := result.Expr.(*BinaryExpr)
	if !ok || bin.Operator != tokenPlus {
		t.Fatalf("expected addition, got %#v", result.Expr)
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	parseErr := parseFailure(t, "(1 + 2")
	if parseErr.Kind != ParseUnexpectedEOF {
		t.Fatalf("got kind %v want unexpected EOF", parseErr.Kind)
	}

	parseErr = parseFailure(t, "fn f(")
	if parseErr.Kind != ParseUnexpectedEOF {
		t.Fatalf("got kind %v want unexpected EOF", parseErr.Kind)
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	parseErr := parseFailure(t, "let 5 = 1")
	if parseErr.Kind != ParseUnexpectedToken {
		t.Fatalf("got kind %v want unexpected token", parseErr.Kind)
	}
	if parseErr.Token.Pos.Line != 1 || parseErr.Token.Pos.Column != 5 {
		t.Fatalf("unexpected position: %+v", parseErr.Token.Pos)
	}
}
