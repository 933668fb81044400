// Package search provides web search backends for the assistant's
// general_search tool.
package search

import "context"

// Result is a single item returned by a Provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider executes a query and returns results.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
