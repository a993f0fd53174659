// Package ir implements the typed value model, instruction set, and
// module/function containers that AST lowering emits into.
package ir

import (
	"fmt"

	"minicc/types"
)

// Value is any operand an instruction can reference: a constant, a
// variable, or the result of a previously emitted instruction. Every
// variant carries a type and an IR name (the textual form printed IR
// uses to refer to it).
type Value interface {
	Type() types.Type
	IRName() string
}

// ConstInt is an integer constant; its IR name is its literal text.
type ConstInt struct {
	Val int64
}

func NewConstInt(val int64) *ConstInt { return &ConstInt{Val: val} }
func (c *ConstInt) Type() types.Type  { return types.I32() }
func (c *ConstInt) IRName() string    { return fmt.Sprintf("%d", c.Val) }
func (c *ConstInt) IsZero() bool      { return c.Val == 0 }

// GlobalVariable is a module-scoped storage location, named "@name". It
// carries an optional constant initializer; a global with no initializer,
// or an initializer of exactly 0, is placed in BSS (see InBSS).
type GlobalVariable struct {
	Name string
	Typ  types.Type
	Init *ConstInt // nil if uninitialized

	// LoadRegHint is a back-end cache slot with no front-end meaning; it
	// defaults to -1 and must never influence a front-end invariant.
	LoadRegHint int
}

func NewGlobalVariable(name string, typ types.Type) *GlobalVariable {
	return &GlobalVariable{Name: name, Typ: typ, LoadRegHint: -1}
}

func (g *GlobalVariable) Type() types.Type { return types.PointerOf(g.Typ) }
func (g *GlobalVariable) IRName() string   { return "@" + g.Name }

// SetInit attaches a constant initializer. Becoming non-BSS is a one-way
// transition: once a nonzero initializer is attached, a later zero
// initializer would not be expected to occur (lowering only calls this
// once per global), but InBSS is always computed from the current Init so
// there is nothing stateful to get out of sync.
func (g *GlobalVariable) SetInit(v *ConstInt) { g.Init = v }

// InBSS reports whether g belongs in the zero-initialized BSS section:
// true iff it has no initializer, or its initializer's value is 0.
func (g *GlobalVariable) InBSS() bool {
	return g.Init == nil || g.Init.IsZero()
}

// LocalVariable is a function-scoped storage location: either a named
// source-level local ("%name") or a formal parameter, always addressable
// (its Type() is a pointer, matching how lowering treats it as an lvalue
// address to be loaded from or stored to).
type LocalVariable struct {
	Name        string
	Typ         types.Type
	LoadRegHint int
}

func NewLocalVariable(name string, typ types.Type) *LocalVariable {
	return &LocalVariable{Name: name, Typ: typ, LoadRegHint: -1}
}

func (l *LocalVariable) Type() types.Type { return types.PointerOf(l.Typ) }
func (l *LocalVariable) IRName() string   { return "%" + l.Name }
