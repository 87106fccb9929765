package mp

import "strconv"

// Parse turns a token stream into a Program. The first structural error
// aborts the parse. Comment tokens are filtered out up front; newline tokens
// take part in the grammar (statement separation and tail detection).
func Parse(tokens []Token) (*Program, error) {
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != tokenComment {
			filtered = append(filtered, tok)
		}
	}
	p := &parser{tokens: filtered}

	program := &Program{}
	for {
		p.skipSeparators()
		if p.isAtEnd() {
			return program, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) isAtEnd() bool {
	return p.current().Type == tokenEOF
}

func (p *parser) check(tt TokenType) bool {
	return p.current().Type == tt
}

func (p *parser) advance() Token {
	tok := p.current()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	if p.isAtEnd() {
		return Token{}, &ParseError{Kind: ParseUnexpectedEOF, Token: p.current(), Msg: msg}
	}
	return Token{}, &ParseError{Kind: ParseUnexpectedToken, Token: p.current(), Msg: msg}
}

func (p *parser) skipNewlines() {
	for p.check(tokenNewline) {
		p.advance()
	}
}

func (p *parser) skipSeparators() {
	for p.check(tokenNewline) || p.check(tokenSemicolon) {
		p.advance()
	}
}

// atProgramTail consumes any newline run and reports whether the cursor then
// sits at EOF. The consumption is deliberate: the separator pass after the
// statement relies on it.
func (p *parser) atProgramTail() bool {
	p.skipNewlines()
	return p.isAtEnd()
}

// atBlockTail consumes any newline run and reports whether the cursor then
// sits at a closing brace.
func (p *parser) atBlockTail() bool {
	p.skipNewlines()
	return p.check(tokenRBrace)
}

func (p *parser) statement() (Statement, error) {
	p.skipSeparators()
	pos := p.current().Pos

	var stmt Statement
	switch {
	case p.match(tokenLet):
		s, err := p.letStatement(pos)
		if err != nil {
			return nil, err
		}
		stmt = s
	case p.match(tokenFn):
		s, err := p.functionStatement(pos)
		if err != nil {
			return nil, err
		}
		stmt = s
	case p.match(tokenReturn):
		s, err := p.returnStatement(pos)
		if err != nil {
			return nil, err
		}
		stmt = s
	default:
		s, err := p.expressionStatement(pos)
		if err != nil {
			return nil, err
		}
		stmt = s
		p.skipSeparators()
		return stmt, nil
	}

	if !p.match(tokenSemicolon) && !p.match(tokenNewline) && !p.atProgramTail() && !p.atBlockTail() {
		return nil, &ParseError{Kind: ParseInvalidSyntax, Token: p.current(), Msg: "expected a statement separator"}
	}
	p.skipSeparators()
	return stmt, nil
}

// expressionStatement applies the tail rule: a bare expression followed by a
// semicolon is an expression statement; followed by a newline it is an
// expression statement unless consuming the newline run lands the cursor at
// EOF or '}', in which case it is the tail of the enclosing scope.
func (p *parser) expressionStatement(pos Position) (Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	switch {
	case p.match(tokenSemicolon):
		return &ExprStmt{Expr: expr, position: pos}, nil
	case p.check(tokenNewline):
		if p.atProgramTail() || p.atBlockTail() {
			return &ResultStmt{Expr: expr, position: pos}, nil
		}
		return &ExprStmt{Expr: expr, position: pos}, nil
	case p.isAtEnd() || p.check(tokenRBrace):
		return &ResultStmt{Expr: expr, position: pos}, nil
	}
	return nil, &ParseError{Kind: ParseInvalidSyntax, Token: p.current(), Msg: "expected a statement separator"}
}

func (p *parser) letStatement(pos Position) (Statement, error) {
	name, err := p.consume(tokenIdent, "expected a variable name after 'let'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenAssign, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{Name: name.Literal, Value: value, position: pos}, nil
}

func (p *parser) functionStatement(pos Position) (Statement, error) {
	name, err := p.consume(tokenIdent, "expected a function name after 'fn'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenLParen, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	if !p.match(tokenRParen) {
		for {
			param, err := p.consume(tokenIdent, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Literal)
			if !p.match(tokenComma) {
				break
			}
		}
		if _, err := p.consume(tokenRParen, "expected ')' after parameters"); err != nil {
			return nil, err
		}
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name.Literal, Params: params, Body: body, position: pos}, nil
}

func (p *parser) returnStatement(pos Position) (Statement, error) {
	if p.check(tokenSemicolon) || p.check(tokenNewline) || p.check(tokenRBrace) || p.isAtEnd() {
		return &ReturnStmt{position: pos}, nil
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: value, position: pos}, nil
}

func (p *parser) expression() (Expression, error) {
	pos := p.current().Pos
	switch {
	case p.match(tokenIf):
		return p.ifExpression(pos)
	case p.match(tokenWhile):
		return p.whileExpression(pos)
	}
	return p.assignment()
}

// assignment is right-associative and only accepts a bare identifier target.
func (p *parser) assignment() (Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.check(tokenAssign) {
		tok := p.advance()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		ident, ok := expr.(*Identifier)
		if !ok {
			return nil, &ParseError{Kind: ParseInvalidSyntax, Token: tok, Msg: "invalid assignment target"}
		}
		return &BinaryExpr{Left: ident, Operator: tokenAssign, Right: value, position: ident.Pos()}, nil
	}
	return expr, nil
}

func (p *parser) equality() (Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(tokenEQ) || p.check(tokenNotEQ) {
		op := p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op.Type, Right: right, position: expr.Pos()}
	}
	return expr, nil
}

func (p *parser) comparison() (Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(tokenLT) || p.check(tokenLTE) || p.check(tokenGT) || p.check(tokenGTE) {
		op := p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op.Type, Right: right, position: expr.Pos()}
	}
	return expr, nil
}

func (p *parser) term() (Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.check(tokenPlus) || p.check(tokenMinus) {
		op := p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op.Type, Right: right, position: expr.Pos()}
	}
	return expr, nil
}

func (p *parser) factor() (Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(tokenAsterisk) || p.check(tokenSlash) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op.Type, Right: right, position: expr.Pos()}
	}
	return expr, nil
}

func (p *parser) unary() (Expression, error) {
	if p.check(tokenMinus) {
		tok := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: tokenMinus, Right: right, position: tok.Pos}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expression, error) {
	tok := p.current()
	switch tok.Type {
	case tokenEOF:
		return nil, &ParseError{Kind: ParseUnexpectedEOF, Token: tok, Msg: "expected an expression"}
	case tokenInt:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &ParseError{Kind: ParseInvalidSyntax, Token: tok, Msg: "invalid integer literal"}
		}
		return &IntegerLiteral{Value: value, position: tok.Pos}, nil
	case tokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{Kind: ParseInvalidSyntax, Token: tok, Msg: "invalid float literal"}
		}
		return &FloatLiteral{Value: value, position: tok.Pos}, nil
	case tokenString:
		p.advance()
		return &StringLiteral{Value: tok.Literal, position: tok.Pos}, nil
	case tokenTrue, tokenFalse:
		p.advance()
		return &BoolLiteral{Value: tok.Type == tokenTrue, position: tok.Pos}, nil
	case tokenIdent:
		p.advance()
		if p.match(tokenLParen) {
			return p.callExpression(tok)
		}
		return &Identifier{Name: tok.Literal, position: tok.Pos}, nil
	case tokenLParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(tokenRParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case tokenLBracket:
		return p.arrayLiteral()
	case tokenLBrace:
		if p.objectAhead() {
			return p.objectLiteral()
		}
		return p.blockExpression()
	}
	return nil, &ParseError{Kind: ParseUnexpectedToken, Token: tok, Msg: "expected an expression"}
}

func (p *parser) callExpression(name Token) (Expression, error) {
	var args []Expression
	if !p.match(tokenRParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(tokenComma) {
				break
			}
		}
		if _, err := p.consume(tokenRParen, "expected ')' after arguments"); err != nil {
			return nil, err
		}
	}
	return &CallExpr{Name: name.Literal, Args: args, position: name.Pos}, nil
}

func (p *parser) arrayLiteral() (Expression, error) {
	open := p.advance()
	p.skipNewlines()
	var elements []Expression
	if !p.check(tokenRBracket) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			p.skipNewlines()
			if !p.match(tokenComma) {
				break
			}
			p.skipNewlines()
		}
	}
	if _, err := p.consume(tokenRBracket, "expected ']' after array elements"); err != nil {
		return nil, err
	}
	return &ArrayLiteral{Elements: elements, position: open.Pos}, nil
}

// objectAhead decides whether a '{' opens an object literal: yes when the
// next significant token is '}' or an identifier/string key followed by ':'.
func (p *parser) objectAhead() bool {
	i := p.pos + 1
	for i < len(p.tokens) && p.tokens[i].Type == tokenNewline {
		i++
	}
	if i >= len(p.tokens) {
		return false
	}
	switch p.tokens[i].Type {
	case tokenRBrace:
		return true
	case tokenIdent, tokenString:
		return i+1 < len(p.tokens) && p.tokens[i+1].Type == tokenColon
	}
	return false
}

func (p *parser) objectLiteral() (Expression, error) {
	open := p.advance()
	p.skipNewlines()
	var entries []ObjectEntry
	for !p.check(tokenRBrace) {
		tok := p.current()
		if tok.Type != tokenIdent && tok.Type != tokenString {
			return nil, &ParseError{Kind: ParseUnexpectedToken, Token: tok, Msg: "expected an object key"}
		}
		p.advance()
		if _, err := p.consume(tokenColon, "expected ':' after object key"); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ObjectEntry{Key: tok.Literal, Value: value})
		p.skipNewlines()
		if !p.match(tokenComma) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.consume(tokenRBrace, "expected '}' after object entries"); err != nil {
		return nil, err
	}
	return &ObjectLiteral{Entries: entries, position: open.Pos}, nil
}

func (p *parser) blockExpression() (Expression, error) {
	open := p.advance()
	stmts, err := p.statementsUntilBrace()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRBrace, "expected '}' after block"); err != nil {
		return nil, err
	}
	return &BlockExpr{Statements: stmts, position: open.Pos}, nil
}

func (p *parser) statementsUntilBrace() ([]Statement, error) {
	var stmts []Statement
	for {
		p.skipSeparators()
		if p.check(tokenRBrace) || p.isAtEnd() {
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) ifExpression(pos Position) (Expression, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	var alt Expression
	if p.match(tokenElse) {
		alt, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return &IfExpr{Condition: cond, Then: then, Else: alt, position: pos}, nil
}

func (p *parser) whileExpression(pos Position) (Expression, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenLBrace, "expected '{' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statementsUntilBrace()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRBrace, "expected '}' after while body"); err != nil {
		return nil, err
	}
	return &WhileExpr{Condition: cond, Body: body, position: pos}, nil
}
