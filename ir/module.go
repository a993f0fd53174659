package ir

import (
	"fmt"

	"minicc/types"
)

// Module owns every global and function a compile unit lowers to, in
// declaration order.
type Module struct {
	Globals   []*GlobalVariable
	Functions []*Function
}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) AddGlobal(g *GlobalVariable) {
	m.Globals = append(m.Globals, g)
}

func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
}

// Function owns its parameters and its linear instruction stream, and
// hands out unique names for temporaries and labels via a single
// monotonically increasing counter shared between both namespaces (this
// guarantees uniqueness trivially, at the cost of some unused numbers in
// either sequence — an acceptable tradeoff the design notes explicitly
// leave to implementers).
type Function struct {
	Name      string
	RetType   types.Type
	Params    []*LocalVariable
	Locals    []*LocalVariable
	Instrs    []*Instruction
	nameCount int
}

func NewFunction(name string, retType types.Type) *Function {
	return &Function{Name: name, RetType: retType}
}

func (f *Function) AddParam(p *LocalVariable) {
	f.Params = append(f.Params, p)
}

func (f *Function) AddLocal(l *LocalVariable) {
	f.Locals = append(f.Locals, l)
}

// NewTemp allocates a fresh instruction result name, "%t<n>".
func (f *Function) NewTemp() string {
	n := f.nameCount
	f.nameCount++
	return fmt.Sprintf("%%t%d", n)
}

// NewLabel allocates a fresh label name, ".L<n>".
func (f *Function) NewLabel() string {
	n := f.nameCount
	f.nameCount++
	return fmt.Sprintf(".L%d", n)
}

// Emit appends instr to the function's linear instruction stream and
// returns it, so call sites can chain straight into using its result.
func (f *Function) Emit(instr *Instruction) *Instruction {
	f.Instrs = append(f.Instrs, instr)
	return instr
}
