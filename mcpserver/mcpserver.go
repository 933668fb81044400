// Package mcpserver exposes the health assistant as an MCP tool, so MCP
// clients (editors, other agents) can ask health questions over stdio or SSE.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Responder runs one conversation turn and returns the assistant's reply.
type Responder interface {
	Respond(ctx context.Context, threadID, message string) (string, error)
}

// Config is the MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Transport string // "stdio" or "sse"
	Addr      string // listen address for the SSE transport
}

// AskParams are the arguments of the ask_health tool.
type AskParams struct {
	Question string `json:"question" description:"the health question to ask"`
	ThreadID string `json:"thread_id,omitempty" description:"conversation thread to continue; omit to start a new one"`
}

// Server wraps an mcp.Server around the conversation orchestrator.
type Server struct {
	config     Config
	responder  Responder
	logger     *zap.Logger
	server     *mcp.Server
	httpServer *http.Server
}

// New creates the MCP server and registers the ask_health tool.
func New(cfg Config, responder Responder, logger *zap.Logger) (*Server, error) {
	switch cfg.Transport {
	case TransportStdio, TransportSSE:
	default:
		return nil, fmt.Errorf("unsupported transport mode: %s", cfg.Transport)
	}

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		config:    cfg,
		responder: responder,
		logger:    logger,
		server:    mcpSrv,
	}

	mcpSrv.AddTool(&mcp.Tool{
		Name: "ask_health",
		Description: "Ask the health information assistant a question. Returns a plain-text " +
			"answer with a color-coded risk indicator and a reminder to consult a doctor.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "the health question to ask",
				},
				"thread_id": map[string]any{
					"type":        "string",
					"description": "conversation thread to continue; omit to start a new one",
				},
			},
			"required": []string{"question"},
		},
	}, s.handleAsk)

	return s, nil
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	switch s.config.Transport {
	case TransportStdio:
		return s.server.Run(ctx, &mcp.StdioTransport{})
	default: // sse
		handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
			return s.server
		}, nil)
		s.httpServer = &http.Server{Addr: s.config.Addr, Handler: handler}

		errCh := make(chan error, 1)
		go func() {
			errCh <- s.httpServer.ListenAndServe()
		}()
		s.logger.Info("MCP server listening", zap.String("addr", s.config.Addr))

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		}
	}
}

func (s *Server) handleAsk(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AskParams
	if err := json.Unmarshal(request.Params.Arguments, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Question == "" {
		return nil, fmt.Errorf("question is required")
	}

	thread := params.ThreadID
	if thread == "" {
		thread = uuid.NewString()
	}

	s.logger.Debug("handling ask_health",
		zap.String("thread_id", thread),
	)

	reply, err := s.responder.Respond(ctx, thread, params.Question)
	if err != nil {
		return nil, fmt.Errorf("turn failed: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"thread_id": thread,
		"answer":    reply,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil
}
