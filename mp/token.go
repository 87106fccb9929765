package mp

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF     TokenType = "EOF"
	tokenNewline TokenType = "NEWLINE"
	tokenComment TokenType = "COMMENT"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenColon     TokenType = ":"
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenLet    TokenType = "LET"
	tokenFn     TokenType = "FN"
	tokenIf     TokenType = "IF"
	tokenElse   TokenType = "ELSE"
	tokenWhile  TokenType = "WHILE"
	tokenReturn TokenType = "RETURN"
	tokenTrue   TokenType = "TRUE"
	tokenFalse  TokenType = "FALSE"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source text.
type Position struct {
	Line   int
	Column int
}

func lookupIdent(ident string) TokenType {
	switch ident {
	case "let":
		return tokenLet
	case "fn":
		return tokenFn
	case "if":
		return tokenIf
	case "else":
		return tokenElse
	case "while":
		return tokenWhile
	case "return":
		return tokenReturn
	case "true":
		return tokenTrue
	case "false":
		return tokenFalse
	}
	return tokenIdent
}
