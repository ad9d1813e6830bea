package embedder

import (
	"os"
	"testing"
)

// clearProviderEnv unsets every env var the factory reads, restoring the
// previous values when the test finishes.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvProvider, EnvModel, EnvBaseURL, EnvOpenAIAPIKey} {
		orig, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, orig)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		openaiKey string
		want      string
	}{
		{
			name:     "explicit ollama",
			provider: "ollama",
			want:     ProviderOllama,
		},
		{
			name:     "explicit openai",
			provider: "openai",
			want:     ProviderOpenAI,
		},
		{
			name:     "explicit local",
			provider: "local",
			want:     ProviderLocal,
		},
		{
			name:     "explicit provider is lowercased",
			provider: "OLLAMA",
			want:     ProviderOllama,
		},
		{
			name:      "openai key present",
			openaiKey: "test-key",
			want:      ProviderOpenAI,
		},
		{
			name:      "explicit provider beats key detection",
			provider:  "local",
			openaiKey: "test-key",
			want:      ProviderLocal,
		},
		{
			name: "nothing set defaults to ollama",
			want: ProviderOllama,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)

			if tt.provider != "" {
				os.Setenv(EnvProvider, tt.provider)
			}
			if tt.openaiKey != "" {
				os.Setenv(EnvOpenAIAPIKey, tt.openaiKey)
			}

			if got := DetectProvider(); got != tt.want {
				t.Errorf("DetectProvider() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("default is ollama", func(t *testing.T) {
		clearProviderEnv(t)

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		if emb.Provider() != ProviderOllama {
			t.Errorf("Provider = %s, want %s", emb.Provider(), ProviderOllama)
		}
		if emb.Model() != DefaultOllamaModel {
			t.Errorf("Model = %s, want %s", emb.Model(), DefaultOllamaModel)
		}
	})

	t.Run("explicit local provider", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvProvider, "local")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		if emb.Provider() != ProviderLocal {
			t.Errorf("Provider = %s, want %s", emb.Provider(), ProviderLocal)
		}
	})

	t.Run("openai with api key", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvProvider, "openai")
		os.Setenv(EnvOpenAIAPIKey, "test-openai-key")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		if emb.Provider() != ProviderOpenAI {
			t.Errorf("Provider = %s, want %s", emb.Provider(), ProviderOpenAI)
		}
	})

	t.Run("openai without api key", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvProvider, "openai")

		if _, err := NewFromEnv(); err == nil {
			t.Error("Expected error when OPENAI_API_KEY not set")
		}
	})

	t.Run("auto-detect openai from key", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvOpenAIAPIKey, "test-key")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		if emb.Provider() != ProviderOpenAI {
			t.Errorf("Provider = %s, want %s", emb.Provider(), ProviderOpenAI)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvProvider, "unknown")

		if _, err := NewFromEnv(); err == nil {
			t.Error("Expected error for unknown provider")
		}
	})

	t.Run("model override", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvModel, "mxbai-embed-large")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		if emb.Model() != "mxbai-embed-large" {
			t.Errorf("Model = %s, want mxbai-embed-large", emb.Model())
		}
	})

	t.Run("base url override", func(t *testing.T) {
		clearProviderEnv(t)
		os.Setenv(EnvBaseURL, "http://ollama.internal:11434")

		emb, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv() error = %v", err)
		}
		defer emb.Close()

		ollama, ok := emb.(*OllamaProvider)
		if !ok {
			t.Fatalf("Expected *OllamaProvider, got %T", emb)
		}
		if ollama.baseURL != "http://ollama.internal:11434" {
			t.Errorf("baseURL = %s, want http://ollama.internal:11434", ollama.baseURL)
		}
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		wantProv string
	}{
		{
			name:     "empty provider defaults to ollama",
			cfg:      Config{CacheSize: 100},
			wantErr:  false,
			wantProv: ProviderOllama,
		},
		{
			name: "ollama explicit",
			cfg: Config{
				Provider:  ProviderOllama,
				Model:     "custom-model",
				BaseURL:   "http://localhost:11434",
				CacheSize: 100,
			},
			wantErr:  false,
			wantProv: ProviderOllama,
		},
		{
			name: "openai with key",
			cfg: Config{
				Provider:          ProviderOpenAI,
				APIKey:            "test-key",
				RequestsPerSecond: 2,
				Burst:             4,
				CacheSize:         100,
			},
			wantErr:  false,
			wantProv: ProviderOpenAI,
		},
		{
			name: "local provider",
			cfg: Config{
				Provider:  ProviderLocal,
				CacheSize: 50,
			},
			wantErr:  false,
			wantProv: ProviderLocal,
		},
		{
			name: "openai without key",
			cfg: Config{
				Provider: ProviderOpenAI,
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			cfg: Config{
				Provider: "bedrock",
			},
			wantErr: true,
		},
		{
			name: "case insensitive provider",
			cfg: Config{
				Provider: "Local",
			},
			wantErr:  false,
			wantProv: ProviderLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emb, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				defer emb.Close()
				if emb.Provider() != tt.wantProv {
					t.Errorf("Provider = %s, want %s", emb.Provider(), tt.wantProv)
				}
			}
		})
	}
}

func TestNewRespectsModelOverride(t *testing.T) {
	emb, err := New(Config{
		Provider: ProviderOllama,
		Model:    "mxbai-embed-large",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer emb.Close()

	if emb.Model() != "mxbai-embed-large" {
		t.Errorf("Model = %s, want mxbai-embed-large", emb.Model())
	}
}
