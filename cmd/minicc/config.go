package main

import (
	"os"

	"github.com/pelletier/go-toml"
)

// tomlConfig mirrors the on-disk layout of minicc.toml.
type tomlConfig struct {
	Output struct {
		Path     string `toml:"path"`
		LogLevel string `toml:"loglevel"`
	} `toml:"output"`
}

// config holds the resolved settings a run of the compiler drives off of,
// after a minicc.toml (if any) has been layered with command-line flags.
type config struct {
	outputPath string
	logLevel   logLevel
}

const defaultConfigName = "minicc.toml"

// loadConfig reads path (if it exists) and returns the settings found
// there. A missing file is not an error: the output path stays empty and
// the log level stays verbose.
func loadConfig(path string) (*config, error) {
	cfg := &config{logLevel: logLevelVerbose}

	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var tc tomlConfig
	if err := toml.Unmarshal(buf, &tc); err != nil {
		return nil, err
	}

	cfg.outputPath = tc.Output.Path
	if lvl, ok := parseLogLevel(tc.Output.LogLevel); ok {
		cfg.logLevel = lvl
	}

	return cfg, nil
}
