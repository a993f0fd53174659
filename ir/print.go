package ir

import (
	"strings"

	"minicc/types"
)

// Print renders the whole module as the line-oriented textual IR
// described in the output grammar: one declare per global, then one
// define block per function with one instruction or label per line.
func (m *Module) Print() string {
	var sb strings.Builder

	for _, g := range m.Globals {
		sb.WriteString(printGlobal(g))
		sb.WriteByte('\n')
	}

	for _, f := range m.Functions {
		sb.WriteString(f.Print())
	}

	return sb.String()
}

func printGlobal(g *GlobalVariable) string {
	var sb strings.Builder
	sb.WriteString("declare ")

	elemType := g.Typ
	if types.IsPointer(g.Typ) {
		elemType = types.Pointee(g.Typ)
	}

	if types.IsArray(elemType) {
		sb.WriteString(types.BaseString(elemType))
		sb.WriteString(" @")
		sb.WriteString(g.Name)
		sb.WriteString(types.DimString(elemType))
	} else {
		sb.WriteString(elemType.String())
		sb.WriteString(" @")
		sb.WriteString(g.Name)
	}

	if g.Init != nil {
		sb.WriteString(" = ")
		sb.WriteString(g.Init.IRName())
	}

	return sb.String()
}

// Print renders one function's define block.
func (f *Function) Print() string {
	var sb strings.Builder

	sb.WriteString("define ")
	sb.WriteString(f.RetType.String())
	sb.WriteString(" @")
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Typ.String())
		sb.WriteByte(' ')
		sb.WriteString(p.IRName())
	}
	sb.WriteString(") {\n")

	for _, instr := range f.Instrs {
		if instr.Kind == Label {
			sb.WriteString(instr.Print())
		} else {
			sb.WriteByte('\t')
			sb.WriteString(instr.Print())
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("}\n")
	return sb.String()
}
