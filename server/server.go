// Package server exposes the health assistant over HTTP: a chat endpoint
// accepting typed text or recorded audio, plus conversation history and
// example-prompt endpoints for the UI.
package server

import (
	"context"
	"net/http"
	_ "net/http/pprof"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/store"
	"github.com/healthdeskco/healthdesk/pkg/transcribe"
)

// Responder runs one conversation turn and returns the assistant's reply.
// *agent.Agent satisfies this.
type Responder interface {
	Respond(ctx context.Context, threadID, message string) (string, error)
}

// Server is the HTTP presentation layer.
type Server struct {
	config      Config
	responder   Responder
	transcriber transcribe.Transcriber // nil disables the audio path
	histories   store.Store
	logger      *zap.Logger
	app         *fiber.App
}

// New creates a Server and registers its routes.
func New(cfg Config, responder Responder, transcriber transcribe.Transcriber, histories store.Store, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:      cfg,
		responder:   responder,
		transcriber: transcriber,
		histories:   histories,
		logger:      logger,
		app:         app,
	}

	app.Post("/api/chat", s.handleChat)
	app.Get("/api/examples", s.handleExamples)
	app.Get("/api/history/:thread", s.handleGetHistory)
	app.Delete("/api/history/:thread", s.handleClearHistory)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	if cfg.EnablePprof {
		app.All("/debug/pprof/*", adaptor.HTTPHandler(http.DefaultServeMux))
	}

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting healthdesk server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// handleExamples returns the quick-selection example prompts shown by the UI.
func (s *Server) handleExamples(c *fiber.Ctx) error {
	return c.JSON(map[string]any{
		"examples": []string{
			"What are the symptoms of flu?",
			"How can I improve my sleep quality?",
			"What should I do if I have a headache?",
		},
	})
}

// handleGetHistory returns the displayable transcript for a thread: user and
// assistant turns only, tool traffic elided.
func (s *Server) handleGetHistory(c *fiber.Ctx) error {
	thread := c.Params("thread")
	msgs, err := s.histories.Get(c.Context(), thread)
	if err != nil {
		s.logger.Error("failed to load history", zap.String("thread_id", thread), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "failed to load history"})
	}

	entries := make([]chatEntry, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}
		if m.Role == llm.RoleAssistant && m.Content == "" {
			// Assistant messages that only carry tool calls are not
			// display turns.
			continue
		}
		entries = append(entries, chatEntry{Role: m.Role, Content: m.Content})
	}

	return c.JSON(map[string]any{
		"thread_id": thread,
		"messages":  entries,
	})
}

// handleClearHistory removes a thread's stored conversation.
func (s *Server) handleClearHistory(c *fiber.Ctx) error {
	thread := c.Params("thread")
	if err := s.histories.Delete(c.Context(), thread); err != nil {
		s.logger.Error("failed to clear history", zap.String("thread_id", thread), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "failed to clear history"})
	}
	return c.JSON(map[string]string{"status": "cleared"})
}

type errorBody struct {
	Error string `json:"error"`
}
