// Package report collects diagnostics raised by the front-end core. The
// core itself never prints or exits; it appends to a Log and keeps going
// where the error kind allows it, leaving presentation and exit codes to
// the CLI collaborator.
package report

import "fmt"

// Kind classifies a diagnostic.
type Kind int

const (
	ShapeError Kind = iota
	DimensionError
	TypeError
	NameError
	ControlFlowError
)

func (k Kind) String() string {
	switch k {
	case ShapeError:
		return "shape error"
	case DimensionError:
		return "dimension error"
	case TypeError:
		return "type error"
	case NameError:
		return "name error"
	case ControlFlowError:
		return "control flow error"
	default:
		return "error"
	}
}

// Diagnostic is a single collected error: a kind, a source line, and a
// human-readable message.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// Log accumulates diagnostics across a single compilation. It is not
// safe for concurrent use; the core runs single-threaded.
type Log struct {
	diags []Diagnostic
}

// Add appends a diagnostic.
func (l *Log) Add(kind Kind, line int, format string, args ...interface{}) {
	l.diags = append(l.diags, Diagnostic{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns every collected diagnostic in report order.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diags
}

// HasErrors reports whether any diagnostic was collected.
func (l *Log) HasErrors() bool {
	return len(l.diags) > 0
}

// HasFatal reports whether a ShapeError was collected — the one kind that
// makes continuing the current visit impossible.
func (l *Log) HasFatal() bool {
	for _, d := range l.diags {
		if d.Kind == ShapeError {
			return true
		}
	}
	return false
}

// abort is thrown by Raise and caught by CatchFatal: it unwinds a single
// visit (AST construction or lowering) back to its entry point without
// tearing down the process.
type abort struct {
	diag Diagnostic
}

// Raise records a ShapeError and unwinds the current visit via panic. Use
// it only when the CST does not match the grammar contract closely enough
// for the visitor to safely produce a partial node — every other error
// kind should be recorded with Log.Add and the visitor should keep going.
func Raise(log *Log, line int, format string, args ...interface{}) {
	d := Diagnostic{Kind: ShapeError, Line: line, Message: fmt.Sprintf(format, args...)}
	log.diags = append(log.diags, d)
	panic(abort{diag: d})
}

// CatchFatal recovers a panic thrown by Raise. It must be deferred at the
// top of whatever function drives a visit (ast.Build, lower.Lower). Any
// other panic value is re-raised: only the abort sentinel is ours to
// swallow.
func CatchFatal() {
	if r := recover(); r != nil {
		if _, ok := r.(abort); ok {
			return
		}
		panic(r)
	}
}
