// Package main is the compiler's command-line entry point: it parses
// arguments, loads configuration, and drives the lex -> parse -> build ->
// lower pipeline over a single source file.
package main

import (
	"fmt"
	"os"
	"strings"

	"minicc/ast"
	"minicc/ir"
	"minicc/lexer"
	"minicc/lower"
	"minicc/parser"
	"minicc/report"
)

const compilerVersion = "minicc 0.1.0"

// compiler holds the resolved configuration for a single run.
type compiler struct {
	sourcePath string
	outputPath string
	logLevel   logLevel
}

func newCompilerFromArgs(args []string) *compiler {
	opts := parseArgs(args)

	configPath := opts.configPath
	if configPath == "" {
		configPath = defaultConfigName
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		argumentError("failed to load config at %q: %s", configPath, err)
	}

	c := &compiler{
		sourcePath: opts.sourcePath,
		outputPath: cfg.outputPath,
		logLevel:   cfg.logLevel,
	}
	if opts.outputPath != "" {
		c.outputPath = opts.outputPath
	}
	if opts.logLevel != "" {
		c.logLevel, _ = parseLogLevel(opts.logLevel)
	}

	return c
}

// run executes the full pipeline and returns the process exit code.
func (c *compiler) run() int {
	src, err := os.ReadFile(c.sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minicc: %s\n", err)
		return 1
	}
	lines := strings.Split(string(src), "\n")

	log := &report.Log{}
	mod := c.compile(src, log)

	if c.logLevel != logLevelSilent {
		for _, d := range log.Diagnostics() {
			if c.logLevel == logLevelError && d.Kind != report.ShapeError {
				continue
			}
			displayDiagnostic(c.sourcePath, lines, d)
		}
		if c.logLevel == logLevelVerbose {
			displaySummary(log)
		}
	}

	if log.HasErrors() {
		return 1
	}

	return c.emit(mod)
}

// compile runs the lexer, parser, AST builder, and lowering pass in
// sequence, stopping early (with a nil module) if an earlier phase left
// nothing a later one could safely consume.
func (c *compiler) compile(src []byte, log *report.Log) *ir.Module {
	p, err := parser.New(lexer.New(strings.NewReader(string(src))))
	if err != nil {
		log.Add(report.ShapeError, 0, "%s", err)
		return nil
	}

	cstRoot, err := p.Parse()
	if err != nil {
		log.Add(report.ShapeError, 0, "%s", err)
		return nil
	}

	unit := ast.Build(cstRoot, log)
	if unit == nil || log.HasFatal() {
		return nil
	}

	return lower.Lower(unit, log)
}

// emit writes the lowered module's printed IR to the configured output
// path, or to stdout if none was set.
func (c *compiler) emit(mod *ir.Module) int {
	if mod == nil {
		return 1
	}

	text := mod.Print()
	if c.outputPath == "" {
		fmt.Print(text)
		return 0
	}

	if err := os.WriteFile(c.outputPath, []byte(text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "minicc: failed to write %q: %s\n", c.outputPath, err)
		return 1
	}
	return 0
}
