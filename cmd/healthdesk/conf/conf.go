// Package conf binds the configuration flags shared by every healthdesk
// command and resolves them against the config file.
package conf

import (
	"github.com/spf13/cobra"

	"github.com/healthdeskco/healthdesk/app"
)

// Flags holds the values of the shared configuration flags.
type Flags struct {
	ConfigPath string
	Provider   string
	Model      string
	BaseURL    string
	DBPath     string
	PromptFile string
	Debug      bool
}

// Register adds the shared flags to cmd.
func Register(cmd *cobra.Command, f *Flags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Path to TOML config file")
	fs.StringVar(&f.Provider, "provider", "", `Chat provider ("openai" or "anthropic")`)
	fs.StringVarP(&f.Model, "model", "m", "", "Chat model identifier")
	fs.StringVar(&f.BaseURL, "base-url", "", "OpenAI-compatible endpoint override")
	fs.StringVar(&f.DBPath, "db", "", "Path to SQLite conversation database (default: in-memory)")
	fs.StringVar(&f.PromptFile, "prompt-file", "", "System prompt file, watched for changes")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
}

// Load resolves the configuration: built-in defaults, then the config file,
// then any flag the user set on the command line.
func Load(cmd *cobra.Command, f *Flags) (app.Config, error) {
	cfg, err := app.LoadConfig(f.ConfigPath)
	if err != nil {
		return app.Config{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("provider") {
		cfg.Provider = f.Provider
	}
	if fs.Changed("model") {
		cfg.Model = f.Model
	}
	if fs.Changed("base-url") {
		cfg.BaseURL = f.BaseURL
	}
	if fs.Changed("db") {
		cfg.DBPath = f.DBPath
	}
	if fs.Changed("prompt-file") {
		cfg.PromptFile = f.PromptFile
	}
	if fs.Changed("debug") {
		cfg.Debug = f.Debug
	}
	return cfg, nil
}
