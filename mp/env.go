package mp

import "sort"

// Function is a user-declared function: a parameter list and a body
// expression, normally a block.
type Function struct {
	Name   string
	Params []string
	Body   Expression
}

type bindingKind int

const (
	bindVariable bindingKind = iota
	bindFunction
	bindBuiltin
)

type binding struct {
	kind    bindingKind
	value   Value
	fn      *Function
	builtin *Builtin
}

// Env is one frame of the scope chain. Names always bind in the current
// frame; lookup walks toward the root and the nearest binding of a name wins
// regardless of its kind, so a variable can shadow an outer function and vice
// versa. Writes in an inner frame are therefore never visible outside it.
type Env struct {
	parent   *Env
	bindings map[string]binding
}

// NewEnv returns a root frame with every builtin registered.
func NewEnv() *Env {
	env := &Env{bindings: make(map[string]binding)}
	for _, b := range builtinTable() {
		env.bindings[b.Name] = binding{kind: bindBuiltin, builtin: b}
	}
	return env
}

// Child opens a block frame on top of e.
func (e *Env) Child() *Env {
	return &Env{parent: e, bindings: make(map[string]binding)}
}

// Define binds a variable in the current frame, shadowing any outer binding.
// Assignment uses this too: it never writes through to a parent frame.
func (e *Env) Define(name string, val Value) {
	e.bindings[name] = binding{kind: bindVariable, value: val}
}

// DefineFunction binds a user function in the current frame.
func (e *Env) DefineFunction(fn *Function) {
	e.bindings[fn.Name] = binding{kind: bindFunction, fn: fn}
}

// Get resolves a variable. A name whose nearest binding is a function or
// builtin does not resolve as a variable.
func (e *Env) Get(name string) (Value, bool) {
	b, ok := e.lookup(name)
	if !ok || b.kind != bindVariable {
		return Value{}, false
	}
	return b.value, true
}

func (e *Env) lookup(name string) (binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.bindings[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// callScope builds the environment a user function body runs in: a fresh
// root frame seeded with every function and builtin visible from e, and no
// variables. Callees can recurse and call siblings but never see caller
// locals.
func (e *Env) callScope() *Env {
	scope := &Env{bindings: make(map[string]binding)}
	e.copyCallables(scope)
	return scope
}

// copyCallables walks root-first so inner frames override outer ones. A
// variable shadowing a function hides that function from callees too.
func (e *Env) copyCallables(dst *Env) {
	if e.parent != nil {
		e.parent.copyCallables(dst)
	}
	for name, b := range e.bindings {
		switch b.kind {
		case bindFunction, bindBuiltin:
			dst.bindings[name] = b
		case bindVariable:
			delete(dst.bindings, name)
		}
	}
}

// Names lists every name visible from e, sorted; the REPL uses it for tab
// completion.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	for env := e; env != nil; env = env.parent {
		for name := range env.bindings {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variables snapshots the variables visible from e, nearest binding winning;
// the REPL uses it for its bindings panel.
func (e *Env) Variables() map[string]Value {
	vars := make(map[string]Value)
	e.collectVariables(vars)
	return vars
}

func (e *Env) collectVariables(dst map[string]Value) {
	if e.parent != nil {
		e.parent.collectVariables(dst)
	}
	for name, b := range e.bindings {
		if b.kind == bindVariable {
			dst[name] = b.value
		} else {
			delete(dst, name)
		}
	}
}
