package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/runwrap/runwrap/internal/cli"
)

func main() {
	// Load .env file (ignore error if file doesn't exist - env vars
	// might be set externally). The config loader expands them.
	_ = godotenv.Load()

	// Cobra already prints the error; main only maps it to an exit code.
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
