package llm

import "context"

// Provider abstracts a chat-completion backend so the conversation loop can
// work with any LLM provider.
type Provider interface {
	// CreateCompletion sends a chat completion request and returns the
	// assistant's response message. systemMsg is a system-level instruction
	// supplied out-of-band on every call (empty string to omit); keeping it
	// out of the stored history means a replayed or externally mutated
	// conversation can never drift the instruction text.
	CreateCompletion(ctx context.Context, model string, systemMsg string, messages []Message, tools []ToolDefinition) (*Message, error)
}

// Outcome is the routing decision derived from an assistant message: either a
// final text answer or a set of tool requests that must all be resolved
// before generation resumes.
type Outcome interface {
	isOutcome()
}

// Final is a terminal assistant reply carrying no tool requests.
type Final struct {
	Text string
}

// ToolRequests carries the tool calls the model wants executed.
type ToolRequests struct {
	Calls []ToolCall
}

func (Final) isOutcome()        {}
func (ToolRequests) isOutcome() {}

// Decide classifies an assistant message into its Outcome variant.
func Decide(msg *Message) Outcome {
	if len(msg.ToolCalls) > 0 {
		return ToolRequests{Calls: msg.ToolCalls}
	}
	return Final{Text: msg.Content}
}
