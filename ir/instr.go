package ir

import (
	"fmt"
	"strings"

	"minicc/types"
)

// InstrKind is the closed set of instruction kinds the lowering pass may
// emit.
type InstrKind int

const (
	AddI InstrKind = iota
	SubI
	MulI
	DivI
	ModI

	LtI
	GtI
	LeI
	GeI
	EqI
	NeI

	Load
	Store
	GetElementPtr
	Call
	Br
	CondBr
	Label
	Ret
)

var binArithMnemonic = map[InstrKind]string{
	AddI: "add", SubI: "sub", MulI: "mul", DivI: "div", ModI: "mod",
}

var cmpMnemonic = map[InstrKind]string{
	LtI: "lt", GtI: "gt", LeI: "le", GeI: "ge", EqI: "eq", NeI: "ne",
}

// Instruction is a single emitted operation. It is itself a Value: an
// instruction with a result is named "%t<n>"; instructions without a
// meaningful result (Store, Br, CondBr, Ret, a void Call) leave Name
// empty, and a Label's Name is its own ".L<n>" label name.
type Instruction struct {
	Kind     InstrKind
	Name     string // result name, e.g. "%t3" or ".L2"
	Typ      types.Type
	Operands []Value

	// Labels holds the target (Br) or the then/else targets (CondBr). A
	// Label instruction keeps its own name in Name, not here.
	Labels []string

	// Callee names the called function (Call only).
	Callee string

	LoadRegHint int
}

func (i *Instruction) Type() types.Type { return i.Typ }
func (i *Instruction) IRName() string   { return i.Name }

// Print renders the instruction's line-oriented textual form, per the
// table of printed forms in the instruction model.
func (i *Instruction) Print() string {
	switch i.Kind {
	case AddI, SubI, MulI, DivI, ModI:
		return fmt.Sprintf("%s = %s %s, %s", i.Name, binArithMnemonic[i.Kind], i.Operands[0].IRName(), i.Operands[1].IRName())

	case LtI, GtI, LeI, GeI, EqI, NeI:
		return fmt.Sprintf("%s = icmp %s %s, %s", i.Name, cmpMnemonic[i.Kind], i.Operands[0].IRName(), i.Operands[1].IRName())

	case Load:
		return fmt.Sprintf("%s = load %s", i.Name, i.Operands[0].IRName())

	case Store:
		return fmt.Sprintf("store %s, %s", i.Operands[0].IRName(), i.Operands[1].IRName())

	case GetElementPtr:
		names := make([]string, len(i.Operands)-1)
		for idx, op := range i.Operands[1:] {
			names[idx] = op.IRName()
		}
		return fmt.Sprintf("%s = gep %s, %s", i.Name, i.Operands[0].IRName(), strings.Join(names, ", "))

	case Call:
		args := make([]string, len(i.Operands))
		for idx, op := range i.Operands {
			args[idx] = op.IRName()
		}
		call := fmt.Sprintf("call @%s(%s)", i.Callee, strings.Join(args, ", "))
		if types.IsVoid(i.Typ) {
			return call
		}
		return fmt.Sprintf("%s = %s", i.Name, call)

	case Br:
		return fmt.Sprintf("br %s", i.Labels[0])

	case CondBr:
		return fmt.Sprintf("br %s, %s, %s", i.Operands[0].IRName(), i.Labels[0], i.Labels[1])

	case Label:
		return i.Name + ":"

	case Ret:
		if len(i.Operands) == 0 {
			return "ret"
		}
		return "ret " + i.Operands[0].IRName()

	default:
		return fmt.Sprintf("<unknown instruction kind %d>", i.Kind)
	}
}
