// Package config loads and validates uecontext configuration. Values come
// from three layers: package defaults, an optional TOML file
// (~/.uecontext/config.toml), then UECONTEXT_* environment overrides.
// Provider-native API key variables (OPENAI_API_KEY) are honored last.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths
const (
	// DirName is the per-user configuration directory under $HOME
	DirName = ".uecontext"

	// FileName is the TOML config file inside DirName
	FileName = "config.toml"

	// IndexFileName is the default index database inside DirName
	IndexFileName = "index.db"
)

// Environment override keys. Root lists use the OS path list separator
// (colon on Unix).
const (
	EnvEngineRoots  = "UECONTEXT_ENGINE_ROOTS"
	EnvProjectRoots = "UECONTEXT_PROJECT_ROOTS"
	EnvIndexPath    = "UECONTEXT_INDEX_PATH"
	EnvLogLevel     = "UECONTEXT_LOG_LEVEL"

	EnvEmbeddingProvider   = "UECONTEXT_EMBEDDING_PROVIDER"
	EnvEmbeddingModel      = "UECONTEXT_EMBEDDING_MODEL"
	EnvEmbeddingBaseURL    = "UECONTEXT_EMBEDDING_BASE_URL"
	EnvEmbeddingAPIKey     = "UECONTEXT_EMBEDDING_API_KEY"
	EnvEmbeddingDimensions = "UECONTEXT_EMBEDDING_DIMENSIONS"
	EnvEmbeddingRPS        = "UECONTEXT_EMBEDDING_REQUESTS_PER_SECOND"
	EnvEmbeddingBurst      = "UECONTEXT_EMBEDDING_BURST"

	EnvSearchDefaultTopK = "UECONTEXT_SEARCH_DEFAULT_TOP_K"
	EnvSearchMaxTopK     = "UECONTEXT_SEARCH_MAX_TOP_K"

	EnvExtractMaxFileSize = "UECONTEXT_EXTRACT_MAX_FILE_SIZE_BYTES"
	EnvExtractWorkers     = "UECONTEXT_EXTRACT_WORKERS"

	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Validation errors
var (
	ErrNoIndexPath     = errors.New("index path is empty")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidSearch   = errors.New("invalid search configuration")
	ErrInvalidExtract  = errors.New("invalid extract configuration")
	ErrInvalidEmbed    = errors.New("invalid embedding configuration")
)

// Config is the full application configuration.
type Config struct {
	// EngineRoots are the Unreal Engine source trees to query. Empty is
	// valid; definition extraction then covers project roots only.
	EngineRoots []string `toml:"engine_roots"`

	// ProjectRoots are game/project source trees.
	ProjectRoots []string `toml:"project_roots"`

	// IndexPath locates the SQLite chunk index.
	IndexPath string `toml:"index_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Embedding EmbeddingConfig `toml:"embedding"`
	Search    SearchConfig    `toml:"search"`
	Extract   ExtractConfig   `toml:"extract"`
}

// EmbeddingConfig configures the embedding provider. APIKey supports
// ${ENV_VAR} expansion in the TOML file.
type EmbeddingConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Dimensions        int     `toml:"dimensions"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// SearchConfig tunes result counts and ranking boosts.
type SearchConfig struct {
	DefaultTopK int     `toml:"default_top_k"`
	MaxTopK     int     `toml:"max_top_k"`
	MacroBoost  float64 `toml:"macro_boost"`
	NameBoost   float64 `toml:"name_boost"`
}

// ExtractConfig tunes the definition extractor.
type ExtractConfig struct {
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`
	Workers          int   `toml:"workers"`
}

// Default returns the configuration used when no file and no environment
// overrides exist.
func Default() *Config {
	return &Config{
		IndexPath: filepath.Join(homeDir(), DirName, IndexFileName),
		LogLevel:  "info",
		Embedding: EmbeddingConfig{
			Provider: "ollama",
		},
		Search: SearchConfig{
			DefaultTopK: 10,
			MaxTopK:     100,
			MacroBoost:  1.15,
			NameBoost:   1.25,
		},
		Extract: ExtractConfig{
			MaxFileSizeBytes: 2 << 20,
			Workers:          runtime.NumCPU(),
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), DirName, FileName)
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (DefaultPath when path is empty; a missing file is not an error),
// then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file yet; defaults plus environment apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.expandPaths()

	// ${VAR} references written in the file resolve against the process
	// environment, so keys can stay out of the config file itself.
	cfg.Embedding.APIKey = os.Expand(cfg.Embedding.APIKey, os.Getenv)
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays UECONTEXT_* variables onto the configuration. Numeric
// variables that fail to parse are reported rather than ignored.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvEngineRoots); v != "" {
		c.EngineRoots = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvProjectRoots); v != "" {
		c.ProjectRoots = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvIndexPath); v != "" {
		c.IndexPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv(EnvEmbeddingProvider); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(EnvEmbeddingBaseURL); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv(EnvEmbeddingAPIKey); v != "" {
		c.Embedding.APIKey = v
	}

	var err error
	if c.Embedding.Dimensions, err = envInt(EnvEmbeddingDimensions, c.Embedding.Dimensions); err != nil {
		return err
	}
	if c.Embedding.RequestsPerSecond, err = envFloat(EnvEmbeddingRPS, c.Embedding.RequestsPerSecond); err != nil {
		return err
	}
	if c.Embedding.Burst, err = envInt(EnvEmbeddingBurst, c.Embedding.Burst); err != nil {
		return err
	}
	if c.Search.DefaultTopK, err = envInt(EnvSearchDefaultTopK, c.Search.DefaultTopK); err != nil {
		return err
	}
	if c.Search.MaxTopK, err = envInt(EnvSearchMaxTopK, c.Search.MaxTopK); err != nil {
		return err
	}
	if c.Extract.MaxFileSizeBytes, err = envInt64(EnvExtractMaxFileSize, c.Extract.MaxFileSizeBytes); err != nil {
		return err
	}
	if c.Extract.Workers, err = envInt(EnvExtractWorkers, c.Extract.Workers); err != nil {
		return err
	}

	return nil
}

// expandPaths resolves a leading ~/ in the index path and all roots.
func (c *Config) expandPaths() {
	c.IndexPath = expandHome(c.IndexPath)
	for i, root := range c.EngineRoots {
		c.EngineRoots[i] = expandHome(root)
	}
	for i, root := range c.ProjectRoots {
		c.ProjectRoots[i] = expandHome(root)
	}
}

// Validate checks structural consistency. Root directories are not required
// to exist here; extraction reports unreachable roots at query time.
func (c *Config) Validate() error {
	if c.IndexPath == "" {
		return ErrNoIndexPath
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Search.DefaultTopK < 1 {
		return fmt.Errorf("%w: default_top_k must be >= 1, got %d", ErrInvalidSearch, c.Search.DefaultTopK)
	}
	if c.Search.MaxTopK < c.Search.DefaultTopK {
		return fmt.Errorf("%w: max_top_k %d below default_top_k %d", ErrInvalidSearch, c.Search.MaxTopK, c.Search.DefaultTopK)
	}
	if c.Search.MacroBoost <= 0 || c.Search.NameBoost <= 0 {
		return fmt.Errorf("%w: boosts must be positive", ErrInvalidSearch)
	}

	if c.Extract.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("%w: max_file_size_bytes must be positive, got %d", ErrInvalidExtract, c.Extract.MaxFileSizeBytes)
	}
	if c.Extract.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidExtract, c.Extract.Workers)
	}

	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: dimensions must not be negative", ErrInvalidEmbed)
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidEmbed)
	}
	if c.Embedding.Burst < 0 {
		return fmt.Errorf("%w: burst must not be negative", ErrInvalidEmbed)
	}

	return nil
}

// SlogLevel maps the configured log level onto slog. Unset means info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
