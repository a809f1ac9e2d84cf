package main

import "flag"

// cliFlags holds the parsed command-line flags.
type cliFlags struct {
	ConfigFile string
	Mode       string
	LogLevel   string
}

func parseFlags() cliFlags {
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	mode := flag.String("mode", "", "Mode to run: check (one-shot diagnosis) or watch (connectivity agent)")
	modeAlias := flag.String("m", "", "Alias for -mode")

	logLevel := flag.String("log-level", "", "Override the configured log level")

	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *mode == "" && *modeAlias != "" {
		*mode = *modeAlias
	}

	return cliFlags{
		ConfigFile: *configFile,
		Mode:       *mode,
		LogLevel:   *logLevel,
	}
}
