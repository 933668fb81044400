package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/search"
)

const searchToolName = "general_search"

// toolErrorPrefix marks a tool result that communicates a failure. The model
// reads it as context and narrates the failure instead of the turn aborting.
const toolErrorPrefix = "ERROR: "

func toolDefinitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        searchToolName,
			Description: "General web search for accurate, current medical information.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// dispatch executes one tool call and returns the tool result content.
// Failures are encoded into the content, never raised out of the turn.
func (a *Agent) dispatch(ctx context.Context, call llm.ToolCall) string {
	switch call.Name {
	case searchToolName:
		var args struct {
			Query string `json:"query"`
		}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return toolErrorPrefix + "invalid tool arguments: " + err.Error()
			}
		}
		results, err := a.searcher.Search(ctx, args.Query)
		if err != nil {
			a.logger.Warn("search tool failed",
				zap.String("query", args.Query),
				zap.Error(err),
			)
			return toolErrorPrefix + "search failed: " + err.Error()
		}
		return formatSearchResults(args.Query, results)
	default:
		return toolErrorPrefix + "unknown tool: " + call.Name
	}
}

func formatSearchResults(query string, results []search.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No search results found for %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}
