// Package app wires the shared dependencies for every healthdesk command
// into one explicit application context: logger, checkpoint store, chat
// provider, search tool, transcriber, and the conversation agent.
// It is constructed once at process start and torn down at exit.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/agent"
	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/logger"
	"github.com/healthdeskco/healthdesk/pkg/search"
	"github.com/healthdeskco/healthdesk/pkg/store"
	"github.com/healthdeskco/healthdesk/pkg/transcribe"
)

// App is the assembled application context.
type App struct {
	Config      Config
	Logger      *zap.Logger
	Store       store.Store
	Agent       *agent.Agent
	Transcriber transcribe.Transcriber // nil when no OpenAI key is available
}

// Option adjusts construction before dependencies are wired.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger supplies a pre-built logger, used by commands that must keep
// stdout clean.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds the application context from configuration and environment
// credentials.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = logger.NewLogger(cfg.Debug)
	}

	provider, err := newChatProvider(cfg)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.DBPath != "" {
		st, err = store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open conversation store: %w", err)
		}
		log.Info("using SQLite conversation store", zap.String("path", cfg.DBPath))
	} else {
		st = store.NewMemoryStore()
		log.Info("using in-memory conversation store")
	}

	searcher := search.NewTavily(envKey(EnvTavilyKey))

	ag := agent.New(agent.Config{
		Model:         cfg.Model,
		MaxToolRounds: cfg.MaxToolRounds,
	}, llm.NewRetryProvider(provider, cfg.MaxRetries), searcher, st, log)

	var transcriber transcribe.Transcriber
	if key := envKey(EnvOpenAIKey); key != "" {
		transcriber = transcribe.NewWhisper(key)
	} else {
		log.Warn("no OpenAI API key, voice input disabled")
	}

	return &App{
		Config:      cfg,
		Logger:      log,
		Store:       st,
		Agent:       ag,
		Transcriber: transcriber,
	}, nil
}

// Start launches background work tied to ctx: currently the prompt file
// watcher, when one is configured.
func (a *App) Start(ctx context.Context) error {
	if a.Config.PromptFile != "" {
		if err := a.Agent.WatchPromptFile(ctx, a.Config.PromptFile); err != nil {
			return fmt.Errorf("watch prompt file: %w", err)
		}
	}
	return nil
}

// Close releases resources.
func (a *App) Close() error {
	err := a.Store.Close()
	a.Logger.Sync()
	return err
}

func newChatProvider(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		key := envKey(EnvAnthropicKey)
		if key == "" {
			return nil, fmt.Errorf("%s is not set", EnvAnthropicKey)
		}
		return llm.NewAnthropicProvider(key), nil
	default:
		key := envKey(EnvOpenAIKey)
		if key == "" {
			return nil, fmt.Errorf("%s is not set", EnvOpenAIKey)
		}
		return llm.NewOpenAIProvider(key, cfg.BaseURL), nil
	}
}
