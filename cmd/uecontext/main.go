package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Set at release build time via -ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// Command output goes to stdout; cobra's default is stderr.
	rootCmd.SetOut(os.Stdout)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
