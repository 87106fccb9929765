package mp

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"time"
)

// Interpreter carries the host facilities builtins reach for, so tests and
// the REPL can substitute buffers and seeded randomness.
type Interpreter struct {
	Stdout io.Writer
	Stdin  io.Reader

	reader *bufio.Reader
	rng    *rand.Rand
}

// NewInterpreter returns an interpreter wired to the process stdio.
func NewInterpreter() *Interpreter {
	return &Interpreter{Stdout: os.Stdout, Stdin: os.Stdin}
}

// Seed fixes the random source, for reproducible runs.
func (in *Interpreter) Seed(seed int64) {
	in.rng = rand.New(rand.NewSource(seed))
}

func (in *Interpreter) random() *rand.Rand {
	if in.rng == nil {
		in.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return in.rng
}

func (in *Interpreter) readLine() (string, error) {
	if in.reader == nil {
		in.reader = bufio.NewReader(in.Stdin)
	}
	line, err := in.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// Eval runs a program in a fresh environment.
func Eval(program *Program) (Value, error) {
	return EvalWithEnv(program, NewEnv())
}

// EvalWithEnv runs a program against an existing environment; the REPL
// threads one environment through successive lines so bindings persist.
func EvalWithEnv(program *Program, env *Env) (Value, error) {
	return NewInterpreter().Eval(program, env)
}

// Eval runs a program. The result is the value of the last executed
// statement; a return escaping the top level is treated as the result.
func (in *Interpreter) Eval(program *Program, env *Env) (Value, error) {
	val, _, err := in.evalStatements(program.Statements, env)
	if err != nil {
		return NewNil(), err
	}
	return val, nil
}

// The internal walk threads an explicit (value, returned, error) outcome:
// returned marks a return statement unwinding toward the nearest call
// boundary, where it is converted back into a plain value.
func (in *Interpreter) evalStatements(stmts []Statement, env *Env) (Value, bool, error) {
	result := NewNil()
	for _, stmt := range stmts {
		val, returned, err := in.evalStatement(stmt, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (in *Interpreter) evalStatement(stmt Statement, env *Env) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		val, returned, err := in.evalExpression(s.Expr, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
		return NewNil(), false, nil
	case *ResultStmt:
		return in.evalExpression(s.Expr, env)
	case *LetStmt:
		val, returned, err := in.evalExpression(s.Value, env)
		if err != nil || returned {
			return val, returned, err
		}
		env.Define(s.Name, val)
		return NewNil(), false, nil
	case *FunctionStmt:
		env.DefineFunction(&Function{Name: s.Name, Params: s.Params, Body: s.Body})
		return NewNil(), false, nil
	case *ReturnStmt:
		if s.Value == nil {
			return NewNil(), true, nil
		}
		val, _, err := in.evalExpression(s.Value, env)
		if err != nil {
			return NewNil(), false, err
		}
		return val, true, nil
	}
	return NewNil(), false, invalidOperation("unsupported statement")
}

func (in *Interpreter) evalExpression(expr Expression, env *Env) (Value, bool, error) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewInt(e.Value), false, nil
	case *FloatLiteral:
		return NewFloat(e.Value), false, nil
	case *StringLiteral:
		return NewString(e.Value), false, nil
	case *BoolLiteral:
		return NewBool(e.Value), false, nil
	case *ArrayLiteral:
		items := make([]Value, 0, len(e.Elements))
		for _, elem := range e.Elements {
			val, returned, err := in.evalExpression(elem, env)
			if err != nil || returned {
				return val, returned, err
			}
			items = append(items, val)
		}
		return NewArray(items), false, nil
	case *ObjectLiteral:
		m := make(map[string]Value, len(e.Entries))
		for _, entry := range e.Entries {
			val, returned, err := in.evalExpression(entry.Value, env)
			if err != nil || returned {
				return val, returned, err
			}
			m[entry.Key] = val
		}
		return NewObject(m), false, nil
	case *Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return NewNil(), false, undefinedVariable(e.Name)
		}
		return val, false, nil
	case *BinaryExpr:
		return in.evalBinary(e, env)
	case *UnaryExpr:
		val, returned, err := in.evalExpression(e.Right, env)
		if err != nil || returned {
			return val, returned, err
		}
		switch val.Kind() {
		case KindInt:
			return NewInt(-val.Int()), false, nil
		case KindFloat:
			return NewFloat(-val.Float()), false, nil
		}
		return NewNil(), false, invalidOperation("cannot negate %s", val.Kind())
	case *CallExpr:
		return in.evalCall(e, env)
	case *IfExpr:
		cond, returned, err := in.evalExpression(e.Condition, env)
		if err != nil || returned {
			return cond, returned, err
		}
		if cond.Kind() != KindBool {
			return NewNil(), false, typeMismatch("if condition must be a boolean, got %s", cond.Kind())
		}
		if cond.Bool() {
			return in.evalExpression(e.Then, env)
		}
		if e.Else != nil {
			return in.evalExpression(e.Else, env)
		}
		return NewNil(), false, nil
	case *BlockExpr:
		return in.evalStatements(e.Statements, env.Child())
	case *WhileExpr:
		return in.evalWhile(e, env)
	}
	return NewNil(), false, invalidOperation("unsupported expression")
}

func (in *Interpreter) evalBinary(expr *BinaryExpr, env *Env) (Value, bool, error) {
	if expr.Operator == tokenAssign {
		ident, ok := expr.Left.(*Identifier)
		if !ok {
			return NewNil(), false, invalidOperation("invalid assignment target")
		}
		val, returned, err := in.evalExpression(expr.Right, env)
		if err != nil || returned {
			return val, returned, err
		}
		env.Define(ident.Name, val)
		return val, false, nil
	}

	left, returned, err := in.evalExpression(expr.Left, env)
	if err != nil || returned {
		return left, returned, err
	}
	right, returned, err := in.evalExpression(expr.Right, env)
	if err != nil || returned {
		return right, returned, err
	}
	val, err := applyBinaryOp(expr.Operator, left, right)
	if err != nil {
		return NewNil(), false, err
	}
	return val, false, nil
}

func applyBinaryOp(op TokenType, left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		return applyIntOp(op, left.Int(), right.Int())
	case left.Kind() == KindFloat && right.Kind() == KindFloat:
		return applyFloatOp(op, left.Float(), right.Float())
	case left.Kind() == KindBool && right.Kind() == KindBool:
		switch op {
		case tokenEQ:
			return NewBool(left.Bool() == right.Bool()), nil
		case tokenNotEQ:
			return NewBool(left.Bool() != right.Bool()), nil
		}
		return NewNil(), invalidOperation("operator %s is not defined for booleans", op)
	}
	return NewNil(), typeMismatch("operator %s needs matching operand types, got %s and %s", op, left.Kind(), right.Kind())
}

func applyIntOp(op TokenType, left, right int64) (Value, error) {
	switch op {
	case tokenPlus:
		return NewInt(left + right), nil
	case tokenMinus:
		return NewInt(left - right), nil
	case tokenAsterisk:
		return NewInt(left * right), nil
	case tokenSlash:
		if right == 0 {
			return NewNil(), invalidOperation("division by zero")
		}
		return NewInt(left / right), nil
	case tokenLT:
		return NewBool(left < right), nil
	case tokenLTE:
		return NewBool(left <= right), nil
	case tokenGT:
		return NewBool(left > right), nil
	case tokenGTE:
		return NewBool(left >= right), nil
	case tokenEQ:
		return NewBool(left == right), nil
	case tokenNotEQ:
		return NewBool(left != right), nil
	}
	return NewNil(), invalidOperation("operator %s is not defined for integers", op)
}

func applyFloatOp(op TokenType, left, right float64) (Value, error) {
	switch op {
	case tokenPlus:
		return NewFloat(left + right), nil
	case tokenMinus:
		return NewFloat(left - right), nil
	case tokenAsterisk:
		return NewFloat(left * right), nil
	case tokenSlash:
		// IEEE semantics: float division by zero yields inf or NaN.
		return NewFloat(left / right), nil
	case tokenLT:
		return NewBool(left < right), nil
	case tokenLTE:
		return NewBool(left <= right), nil
	case tokenGT:
		return NewBool(left > right), nil
	case tokenGTE:
		return NewBool(left >= right), nil
	case tokenEQ:
		return NewBool(left == right), nil
	case tokenNotEQ:
		return NewBool(left != right), nil
	}
	return NewNil(), invalidOperation("operator %s is not defined for floats", op)
}

func (in *Interpreter) evalCall(expr *CallExpr, env *Env) (Value, bool, error) {
	b, ok := env.lookup(expr.Name)
	if !ok || b.kind == bindVariable {
		return NewNil(), false, undefinedVariable(expr.Name)
	}

	if b.kind == bindFunction && len(b.fn.Params) != len(expr.Args) {
		return NewNil(), false, invalidOperation("%s expects %d arguments, got %d", b.fn.Name, len(b.fn.Params), len(expr.Args))
	}

	args := make([]Value, len(expr.Args))
	for i, arg := range expr.Args {
		val, returned, err := in.evalExpression(arg, env)
		if err != nil || returned {
			return val, returned, err
		}
		args[i] = val
	}

	if b.kind == bindBuiltin {
		val, err := b.builtin.Fn(in, args)
		if err != nil {
			return NewNil(), false, err
		}
		return val, false, nil
	}

	callEnv := env.callScope()
	for i, param := range b.fn.Params {
		callEnv.Define(param, args[i])
	}
	// The returned flag stops here: a return inside the body is this call's
	// plain result.
	val, _, err := in.evalExpression(b.fn.Body, callEnv)
	if err != nil {
		return NewNil(), false, err
	}
	return val, false, nil
}

func (in *Interpreter) evalWhile(expr *WhileExpr, env *Env) (Value, bool, error) {
	var collected []Value
	for {
		cond, returned, err := in.evalExpression(expr.Condition, env)
		if err != nil || returned {
			return cond, returned, err
		}
		if cond.Kind() != KindBool {
			return NewNil(), false, typeMismatch("while condition must be a boolean, got %s", cond.Kind())
		}
		if !cond.Bool() {
			break
		}
		for i, stmt := range expr.Body {
			val, returned, err := in.evalStatement(stmt, env)
			if err != nil {
				return NewNil(), false, err
			}
			if returned {
				return val, true, nil
			}
			if i == len(expr.Body)-1 {
				collected = append(collected, val)
			}
		}
	}
	if len(collected) == 0 {
		return NewNil(), false, nil
	}
	return NewArray(collected), false, nil
}
