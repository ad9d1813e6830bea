package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "uecontext",
	Short: "Hybrid code intelligence for Unreal Engine C++ codebases",
	Long: `uecontext answers natural-language and symbol queries over Unreal Engine
C++ source trees. Symbol queries ("AActor", "struct FHitResult") are resolved
by scanning source for the definition; conceptual queries ("how does actor
replication work") run against a prebuilt vector index; mixed queries combine
both, with exact definitions always ranked above semantic matches.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.uecontext/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig builds the effective configuration for one command run. The
// --log-level flag wins over both the config file and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newLogger returns the CLI logger. Logs always go to stderr; stdout is
// reserved for command output and, under serve, the MCP protocol.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
