package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Environment variables carrying credentials. Secrets are never read from the
// config file.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvTavilyKey    = "TAVILY_API_KEY"
)

// Config holds all non-secret settings, loadable from a TOML file with flag
// overrides applied by the commands.
type Config struct {
	// Provider selects the chat backend: "openai" or "anthropic".
	Provider string `toml:"provider"`

	// Model is the chat model identifier.
	Model string `toml:"model"`

	// BaseURL overrides the OpenAI endpoint, allowing any OpenAI-compatible
	// server (Ollama, vLLM, Groq). Ignored for the Anthropic provider.
	BaseURL string `toml:"base_url"`

	// MaxToolRounds bounds the generate/invoke-tools cycle per turn.
	MaxToolRounds int `toml:"max_tool_rounds"`

	// MaxRetries is the number of additional model-call attempts after a
	// failure.
	MaxRetries int `toml:"max_retries"`

	// DBPath is the SQLite database path for conversation history.
	// Empty selects the in-memory store.
	DBPath string `toml:"db_path"`

	// PromptFile optionally overrides the system prompt; the file is watched
	// and reloaded on change.
	PromptFile string `toml:"prompt_file"`

	// ListenAddr is the HTTP listen address for the serve command.
	ListenAddr string `toml:"listen_addr"`

	Debug bool `toml:"debug"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Provider:      ProviderOpenAI,
		Model:         "gpt-4o-mini",
		MaxToolRounds: 5,
		MaxRetries:    2,
		ListenAddr:    ":8080",
	}
}

// LoadConfig returns the defaults overlaid with the TOML file at path, when
// path is non-empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

func envKey(name string) string {
	return os.Getenv(name)
}
