// Package llm provides provider-agnostic chat completion types and clients
// for the OpenAI and Anthropic APIs.
package llm

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a single message in a conversation.
type Message struct {
	Role       string     `json:"role"`                   // "system", "user", "assistant", "tool"
	Content    string     `json:"content"`                // The message content
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // Tool calls requested by the assistant
	ToolCallID string     `json:"tool_call_id,omitempty"` // Set when Role == "tool" to correlate with a ToolCall
}

// ToolCall represents a single tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON arguments
}

// ToolDefinition describes a tool offered to the model during a completion.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON-schema object
}
