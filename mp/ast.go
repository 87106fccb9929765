package mp

// Node is the common interface of all AST nodes.
type Node interface {
	Pos() Position
}

// Statement nodes appear in program and block statement lists.
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes produce a value when evaluated.
type Expression interface {
	Node
	exprNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}

// ExprStmt is an expression evaluated for its side effects; its value is
// discarded.
type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) Pos() Position { return s.position }
func (s *ExprStmt) stmtNode()     {}

// ResultStmt is the tail expression of a program or block; its value becomes
// the value of the enclosing scope.
type ResultStmt struct {
	Expr     Expression
	position Position
}

func (s *ResultStmt) Pos() Position { return s.position }
func (s *ResultStmt) stmtNode()     {}

// LetStmt declares a variable in the current scope.
type LetStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *LetStmt) Pos() Position { return s.position }
func (s *LetStmt) stmtNode()     {}

// FunctionStmt declares a named function. Body is a single expression,
// normally a block.
type FunctionStmt struct {
	Name     string
	Params   []string
	Body     Expression
	position Position
}

func (s *FunctionStmt) Pos() Position { return s.position }
func (s *FunctionStmt) stmtNode()     {}

// ReturnStmt exits the enclosing function call. Value is nil for a bare
// return.
type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) Pos() Position { return s.position }
func (s *ReturnStmt) stmtNode()     {}

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) Pos() Position { return e.position }
func (e *IntegerLiteral) exprNode()     {}

type FloatLiteral struct {
	Value    float64
	position Position
}

func (e *FloatLiteral) Pos() Position { return e.position }
func (e *FloatLiteral) exprNode()     {}

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) Pos() Position { return e.position }
func (e *StringLiteral) exprNode()     {}

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) Pos() Position { return e.position }
func (e *BoolLiteral) exprNode()     {}

type ArrayLiteral struct {
	Elements []Expression
	position Position
}

func (e *ArrayLiteral) Pos() Position { return e.position }
func (e *ArrayLiteral) exprNode()     {}

// ObjectEntry is one key/value pair of an object literal. Entries keep their
// source order; duplicate keys are resolved at evaluation (last write wins).
type ObjectEntry struct {
	Key   string
	Value Expression
}

type ObjectLiteral struct {
	Entries  []ObjectEntry
	position Position
}

func (e *ObjectLiteral) Pos() Position { return e.position }
func (e *ObjectLiteral) exprNode()     {}

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) Pos() Position { return e.position }
func (e *Identifier) exprNode()     {}

// BinaryExpr covers arithmetic, comparison, equality and assignment
// (Operator "=" with an Identifier on the left).
type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) Pos() Position { return e.position }
func (e *BinaryExpr) exprNode()     {}

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) Pos() Position { return e.position }
func (e *UnaryExpr) exprNode()     {}

// CallExpr invokes a named function or builtin.
type CallExpr struct {
	Name     string
	Args     []Expression
	position Position
}

func (e *CallExpr) Pos() Position { return e.position }
func (e *CallExpr) exprNode()     {}

// IfExpr evaluates Then or Else depending on Condition. Else may be nil.
type IfExpr struct {
	Condition Expression
	Then      Expression
	Else      Expression
	position  Position
}

func (e *IfExpr) Pos() Position { return e.position }
func (e *IfExpr) exprNode()     {}

// BlockExpr is a braced statement list; it opens a new scope and evaluates to
// the value of its tail statement.
type BlockExpr struct {
	Statements []Statement
	position   Position
}

func (e *BlockExpr) Pos() Position { return e.position }
func (e *BlockExpr) exprNode()     {}

// WhileExpr re-checks Condition before each iteration. The body runs in the
// enclosing scope and the value of its last statement is collected per
// iteration; the loop evaluates to an array of those values, or nil when the
// body never ran.
type WhileExpr struct {
	Condition Expression
	Body      []Statement
	position  Position
}

func (e *WhileExpr) Pos() Position { return e.position }
func (e *WhileExpr) exprNode()     {}
