package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"minicc/report"
)

type logLevel int

const (
	logLevelSilent logLevel = iota
	logLevelError
	logLevelVerbose
)

func parseLogLevel(s string) (logLevel, bool) {
	switch s {
	case "silent":
		return logLevelSilent, true
	case "error":
		return logLevelError, true
	case "verbose", "":
		return logLevelVerbose, true
	default:
		return 0, false
	}
}

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	infoColorFG  = pterm.FgLightCyan
	successColor = pterm.FgLightGreen
)

// displayDiagnostic prints one diagnostic's banner, offending source
// line (if it fell within the file), and a summary message.
func displayDiagnostic(sourcePath string, lines []string, d report.Diagnostic) {
	fmt.Println()
	errorStyleBG.Print(" " + d.Kind.String() + " ")
	fmt.Print(" ")
	infoColorFG.Print(filepath.Base(sourcePath))
	fmt.Printf(":%d\n", d.Line)

	if d.Line >= 1 && d.Line <= len(lines) {
		line := lines[d.Line-1]
		trimmed := strings.TrimLeft(line, " \t")
		fmt.Printf("  %d | %s\n", d.Line, trimmed)
		errorColorFG.Printf("  %s | %s\n", strings.Repeat(" ", len(fmt.Sprint(d.Line))), strings.Repeat("^", len(trimmed)))
	}

	fmt.Println(d.Message)
}

// displaySummary prints the closing line a run ends with: the total
// number of diagnostics collected, or "compiled cleanly" if there were
// none.
func displaySummary(log *report.Log) {
	fmt.Println()
	diags := log.Diagnostics()
	if len(diags) == 0 {
		successColor.Println("compiled cleanly")
		return
	}

	errorColorFG.Printf("%d diagnostic(s)\n", len(diags))
}
