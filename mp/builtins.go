package mp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// BuiltinFunc is the implementation contract for builtins. Arity and argument
// types are validated inside each builtin.
type BuiltinFunc func(in *Interpreter, args []Value) (Value, error)

// Builtin is a host function callable from scripts.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func builtinTable() []*Builtin {
	return []*Builtin{
		{Name: "print", Fn: builtinPrint},
		{Name: "input", Fn: builtinInput},
		{Name: "push", Fn: builtinPush},
		{Name: "pop", Fn: builtinPop},
		{Name: "len", Fn: builtinLen},
		{Name: "toString", Fn: builtinToString},
		{Name: "vector", Fn: builtinVector},
		{Name: "int", Fn: builtinInt},
		{Name: "float", Fn: builtinFloat},
		{Name: "random", Fn: builtinRandom},
	}
}

// BuiltinNames lists the registered builtins, in table order.
func BuiltinNames() []string {
	table := builtinTable()
	names := make([]string, len(table))
	for i, b := range table {
		names[i] = b.Name
	}
	return names
}

func builtinPrint(in *Interpreter, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	fmt.Fprintln(in.Stdout, strings.Join(parts, " "))
	return NewNil(), nil
}

func builtinInput(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 0 {
		return NewNil(), invalidOperation("input expects no arguments, got %d", len(args))
	}
	line, err := in.readLine()
	if err != nil {
		return NewNil(), invalidOperation("input: %v", err)
	}
	return NewString(strings.TrimSpace(line)), nil
}

func builtinPush(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 2 {
		return NewNil(), invalidOperation("push expects 2 arguments, got %d", len(args))
	}
	if args[0].Kind() != KindArray {
		return NewNil(), typeMismatch("push expects an array, got %s", args[0].Kind())
	}
	src := args[0].Array()
	out := make([]Value, len(src)+1)
	copy(out, src)
	out[len(src)] = args[1]
	return NewArray(out), nil
}

func builtinPop(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), invalidOperation("pop expects 1 argument, got %d", len(args))
	}
	if args[0].Kind() != KindArray {
		return NewNil(), typeMismatch("pop expects an array, got %s", args[0].Kind())
	}
	items := args[0].Array()
	if len(items) == 0 {
		return NewNil(), invalidOperation("pop from empty array")
	}
	return items[len(items)-1], nil
}

func builtinLen(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), invalidOperation("len expects 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case KindString:
		return NewInt(int64(utf8.RuneCountInString(args[0].Str()))), nil
	case KindArray:
		return NewInt(int64(len(args[0].Array()))), nil
	case KindObject:
		return NewInt(int64(len(args[0].Object()))), nil
	}
	return NewNil(), typeMismatch("len expects a string, array or object, got %s", args[0].Kind())
}

func builtinToString(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), invalidOperation("toString expects 1 argument, got %d", len(args))
	}
	return NewString(args[0].String()), nil
}

func builtinVector(in *Interpreter, args []Value) (Value, error) {
	items := make([]Value, len(args))
	copy(items, args)
	return NewArray(items), nil
}

func builtinInt(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), invalidOperation("int expects 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case KindInt:
		return args[0], nil
	case KindFloat:
		return NewInt(int64(args[0].Float())), nil
	case KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(args[0].Str()), 10, 64)
		if err != nil {
			return NewNil(), invalidOperation("int: cannot parse %q", args[0].Str())
		}
		return NewInt(i), nil
	}
	return NewNil(), typeMismatch("int expects a number or string, got %s", args[0].Kind())
}

func builtinFloat(in *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), invalidOperation("float expects 1 argument, got %d", len(args))
	}
	switch args[0].Kind() {
	case KindFloat:
		return args[0], nil
	case KindInt:
		return NewFloat(float64(args[0].Int())), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str()), 64)
		if err != nil {
			return NewNil(), invalidOperation("float: cannot parse %q", args[0].Str())
		}
		return NewFloat(f), nil
	}
	return NewNil(), typeMismatch("float expects a number or string, got %s", args[0].Kind())
}

// random() yields a non-negative integer; random(n) one in [0, n);
// random(lo, hi) one in [lo, hi). Float arguments select float results over
// the same ranges. Bounds must share a kind.
func builtinRandom(in *Interpreter, args []Value) (Value, error) {
	rng := in.random()
	switch len(args) {
	case 0:
		return NewInt(rng.Int63()), nil
	case 1:
		switch args[0].Kind() {
		case KindInt:
			n := args[0].Int()
			if n <= 0 {
				return NewNil(), invalidOperation("random: bound must be positive, got %d", n)
			}
			return NewInt(rng.Int63n(n)), nil
		case KindFloat:
			return NewFloat(rng.Float64() * args[0].Float()), nil
		}
		return NewNil(), typeMismatch("random expects numeric bounds, got %s", args[0].Kind())
	case 2:
		switch {
		case args[0].Kind() == KindInt && args[1].Kind() == KindInt:
			lo, hi := args[0].Int(), args[1].Int()
			if hi <= lo {
				return NewNil(), invalidOperation("random: empty range %d..%d", lo, hi)
			}
			return NewInt(lo + rng.Int63n(hi-lo)), nil
		case args[0].Kind() == KindFloat && args[1].Kind() == KindFloat:
			lo, hi := args[0].Float(), args[1].Float()
			if hi <= lo {
				return NewNil(), invalidOperation("random: empty range %s..%s", formatFloat(lo), formatFloat(hi))
			}
			return NewFloat(lo + rng.Float64()*(hi-lo)), nil
		}
		return NewNil(), typeMismatch("random bounds must both be integers or both floats, got %s and %s", args[0].Kind(), args[1].Kind())
	}
	return NewNil(), invalidOperation("random expects 0 to 2 arguments, got %d", len(args))
}
