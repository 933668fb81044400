// Package store persists conversation history keyed by thread identifier.
// The checkpoint store is an injected dependency: an in-memory map for tests
// and single-process use, and a SQLite backing for durable state.
package store

import (
	"context"

	"github.com/healthdeskco/healthdesk/pkg/llm"
)

// Store is a key-value checkpoint store for conversation histories.
// Get on an unknown thread returns an empty history, not an error; a thread
// springs into existence on its first Put.
type Store interface {
	// Get retrieves the ordered message history for a thread.
	Get(ctx context.Context, threadID string) ([]llm.Message, error)

	// Put replaces the stored history for a thread.
	Put(ctx context.Context, threadID string, messages []llm.Message) error

	// Delete removes a thread's history. Deleting an unknown thread is a no-op.
	Delete(ctx context.Context, threadID string) error

	// Threads lists all thread identifiers with stored history.
	Threads(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

func cloneMessages(msgs []llm.Message) []llm.Message {
	if msgs == nil {
		return nil
	}
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	for i := range out {
		if len(out[i].ToolCalls) > 0 {
			calls := make([]llm.ToolCall, len(out[i].ToolCalls))
			copy(calls, out[i].ToolCalls)
			out[i].ToolCalls = calls
		}
	}
	return out
}
