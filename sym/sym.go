// Package sym implements the scope/symbol table lowering uses to resolve
// identifiers to the IR values (globals, locals, functions) that back
// them: a stack of scopes with push/pop, insert, and innermost-outward
// lookup.
package sym

import "minicc/types"

// Kind distinguishes what an identifier refers to.
type Kind int

const (
	KindVar Kind = iota
	KindFunc
)

// Symbol is one entry in a scope: a name bound to a type and, for
// variables, the IR value backing its storage.
type Symbol struct {
	Name  string
	Kind  Kind
	Type  types.Type
	Value interface{} // *ir.GlobalVariable / *ir.LocalVariable / *ir.Function, left untyped to avoid an import cycle with package ir
}

// Table is a stack of lexical scopes. The outermost scope (index 0) holds
// globals and function declarations; each nested block pushes a new
// scope and pops it on exit.
type Table struct {
	scopes []map[string]*Symbol
}

// New returns a Table with its single global scope already pushed.
func New() *Table {
	t := &Table{}
	t.Push()
	return t
}

// Push opens a new, innermost scope.
func (t *Table) Push() {
	t.scopes = append(t.scopes, map[string]*Symbol{})
}

// Pop closes the innermost scope.
func (t *Table) Pop() {
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Insert binds name in the innermost scope. It reports false if name is
// already bound in that same scope (shadowing an outer scope's binding is
// allowed; redeclaring within one scope is not).
func (t *Table) Insert(sym *Symbol) bool {
	top := t.scopes[len(t.scopes)-1]
	if _, exists := top[sym.Name]; exists {
		return false
	}
	top[sym.Name] = sym
	return true
}

// Lookup searches from the innermost scope outward and returns the first
// binding found, or (nil, false) if name is undeclared.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}
