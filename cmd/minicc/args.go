package main

import (
	"fmt"
	"os"
	"strings"
)

const usage = `Usage: minicc [flags|options] <path to source file>

Flags:
------
-h, --help      Displays usage information (ie. this text).
-v, --version   Displays the current compiler version.

Options:
--------
-o,  --outpath    Sets the path the compiled IR is written to. Defaults to
                  stdout if unspecified.
-c,  --config     Sets the path to the TOML configuration file. Defaults to
                  minicc.toml in the current directory if present.
-ll, --loglevel   Sets the compiler's log-level. Valid values are:
                    - "verbose" for outputting every diagnostic (default)
                    - "error" for outputting only diagnostics of ShapeError
                    - "silent" for no diagnostic output
`

func printUsage(exitCode int) {
	fmt.Print(usage)
	os.Exit(exitCode)
}

func argumentError(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, "argument error: ", fmt.Sprintf(format, args...), "\n\n")
	printUsage(1)
}

// argParser is a minimal command-line argument parser: flags and options
// introduced by a leading "-", with a single positional source path.
type argParser struct {
	args []string
	ndx  int
}

var optionNames = map[string]struct{}{
	"o": {}, "-outpath": {},
	"c": {}, "-config": {},
	"ll": {}, "-loglevel": {},
}

// nextArg returns the next argument's name (empty for a positional), its
// value (empty for a bare flag), and whether an argument remained.
func (ap *argParser) nextArg() (string, string, bool) {
	if ap.ndx >= len(ap.args) {
		return "", "", false
	}

	arg := ap.args[ap.ndx]
	ap.ndx++

	if !strings.HasPrefix(arg, "-") {
		return "", arg, true
	}

	name := arg[1:]
	if _, ok := optionNames[name]; ok {
		if ap.ndx < len(ap.args) && !strings.HasPrefix(ap.args[ap.ndx], "-") {
			value := ap.args[ap.ndx]
			ap.ndx++
			return name, value, true
		}
		argumentError("option %s requires an argument", strings.TrimLeft(name, "-"))
	}

	return name, "", true
}

// cliOptions collects every setting the command line can override; zero
// values mean "not specified on the command line, defer to config/defaults".
type cliOptions struct {
	sourcePath string
	configPath string
	outputPath string
	logLevel   string
}

func parseArgs(args []string) *cliOptions {
	opts := &cliOptions{}
	ap := argParser{args: args}

	for {
		name, value, ok := ap.nextArg()
		if !ok {
			break
		}

		switch name {
		case "h", "-help":
			printUsage(0)
		case "v", "-version":
			fmt.Println(compilerVersion)
			os.Exit(0)
		case "o", "-outpath":
			opts.outputPath = value
		case "c", "-config":
			opts.configPath = value
		case "ll", "-loglevel":
			if _, ok := parseLogLevel(value); !ok {
				argumentError("invalid log level %q", value)
			}
			opts.logLevel = value
		case "":
			if opts.sourcePath != "" {
				argumentError("source path specified multiple times")
			}
			opts.sourcePath = value
		default:
			argumentError("unknown flag: %s", name)
		}
	}

	if opts.sourcePath == "" {
		argumentError("a source path must be specified")
	}

	return opts
}
