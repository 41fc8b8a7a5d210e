// Package main is the entry point for the taskman CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

// dataDirEnv overrides the default data directory.
const dataDirEnv = "TASKMAN_DATA_DIR"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx := context.Background()

	// The data directory decides which config file is loaded,
	// so it is read before cobra parses the command line.
	dataDir := dataDirFromArgs(args)
	if dataDir == "" {
		dataDir = os.Getenv(dataDirEnv)
	}

	container, err := app.New(ctx, dataDir)
	if err != nil {
		// A broken config must not block help, version or the template
		if canRunWithoutContainer(args) {
			rootCmd := cli.NewRootCommand(nil, version)
			rootCmd.SetArgs(args)
			return rootCmd.Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// dataDirFromArgs returns the value of --data-dir if present.
func dataDirFromArgs(args []string) string {
	flag := "--" + cli.DataDirFlag
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, flag+"="); ok {
			return v
		}
	}
	return ""
}

func canRunWithoutContainer(args []string) bool {
	if len(args) > 1 && args[0] == "config" && args[1] == "template" {
		return true
	}
	if len(args) > 0 && args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
