// Package agent implements the conversation orchestrator: a generate /
// invoke-tools loop over an LLM provider with a web search tool, persisting
// history per thread in a checkpoint store.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/search"
	"github.com/healthdeskco/healthdesk/pkg/store"
)

const defaultMaxToolRounds = 5

// Config holds orchestrator settings.
type Config struct {
	// Model is the provider model identifier.
	Model string

	// MaxToolRounds bounds the generate/invoke-tools cycle per turn.
	// Zero selects the default of 5.
	MaxToolRounds int

	// SystemPrompt overrides the built-in instruction text when non-empty.
	SystemPrompt string
}

// Agent coordinates the LLM provider, the search tool, and the checkpoint
// store for one conversation turn at a time.
type Agent struct {
	provider llm.Provider
	searcher search.Provider
	store    store.Store
	logger   *zap.Logger

	model     string
	maxRounds int

	promptMu sync.RWMutex
	prompt   string

	// threadLocks serializes turns per thread identifier: a second turn for
	// the same thread waits for the first to complete.
	threadLocks sync.Map // threadID -> *sync.Mutex
}

// New constructs an Agent.
func New(cfg Config, provider llm.Provider, searcher search.Provider, st store.Store, logger *zap.Logger) *Agent {
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	return &Agent{
		provider:  provider,
		searcher:  searcher,
		store:     st,
		logger:    logger,
		model:     cfg.Model,
		maxRounds: maxRounds,
		prompt:    prompt,
	}
}

// SystemPrompt returns the current instruction text.
func (a *Agent) SystemPrompt() string {
	a.promptMu.RLock()
	defer a.promptMu.RUnlock()
	return a.prompt
}

// SetSystemPrompt swaps the instruction text used on subsequent generation
// steps. An empty value restores the built-in prompt.
func (a *Agent) SetSystemPrompt(prompt string) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSystemPrompt
	}
	a.promptMu.Lock()
	a.prompt = prompt
	a.promptMu.Unlock()
}

// Respond runs one full turn for the given thread: it appends the user
// message to the stored history, loops between generation and tool execution
// until the model produces a reply with no tool calls, persists the updated
// history, and returns the reply text.
func (a *Agent) Respond(ctx context.Context, threadID, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", errors.New("user message is empty")
	}
	if strings.TrimSpace(threadID) == "" {
		return "", errors.New("thread identifier is empty")
	}

	unlock := a.lockThread(threadID)
	defer unlock()

	history, err := a.store.Get(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	msgs := append(history, llm.Message{Role: llm.RoleUser, Content: userMessage})
	tools := toolDefinitions()

	for round := 0; round <= a.maxRounds; round++ {
		resp, err := a.provider.CreateCompletion(ctx, a.model, a.SystemPrompt(), msgs, tools)
		if err != nil {
			return "", fmt.Errorf("model call: %w", err)
		}
		msgs = append(msgs, *resp)

		switch out := llm.Decide(resp).(type) {
		case llm.Final:
			if err := a.store.Put(ctx, threadID, msgs); err != nil {
				// The reply is still valid; losing a checkpoint must not
				// fail the turn.
				a.logger.Warn("failed to persist conversation",
					zap.String("thread_id", threadID),
					zap.Error(err),
				)
			}
			a.logger.Debug("turn complete",
				zap.String("thread_id", threadID),
				zap.Int("rounds", round),
				zap.Int("history_len", len(msgs)),
			)
			return out.Text, nil

		case llm.ToolRequests:
			a.logger.Debug("executing tool calls",
				zap.String("thread_id", threadID),
				zap.Int("round", round+1),
				zap.Int("count", len(out.Calls)),
			)
			for _, call := range out.Calls {
				msgs = append(msgs, llm.Message{
					Role:       llm.RoleTool,
					Content:    a.dispatch(ctx, call),
					ToolCallID: call.ID,
				})
			}
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds for thread %s", a.maxRounds, threadID)
}

func (a *Agent) lockThread(threadID string) func() {
	v, _ := a.threadLocks.LoadOrStore(threadID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
