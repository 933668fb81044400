package server

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/transcribe"
)

// Notices appended to the transcript instead of contacting the orchestrator.
const (
	noticeNoInput          = "Please provide a message via text or voice."
	noticeTranscribeFailed = "❌ Sorry, I couldn't transcribe the audio. Please try again."
	noticeBadAudio         = "❌ Error processing audio data."
)

type chatRequest struct {
	ThreadID string        `json:"thread_id"`
	Text     string        `json:"text"`
	Audio    *audioPayload `json:"audio"`
}

// audioPayload is a microphone capture: sample rate plus base64-encoded
// 16-bit little-endian mono PCM samples.
type audioPayload struct {
	SampleRate int    `json:"sample_rate"`
	PCM        string `json:"pcm"`
}

type chatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ThreadID string `json:"thread_id"`
	// Messages holds the transcript entries this turn appended.
	Messages []chatEntry `json:"messages"`
}

// handleChat runs one presentation turn: resolve the user message from text
// or audio, invoke the orchestrator, and return the appended transcript
// entries. Every failure path yields user-visible chat text.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "invalid request body"})
	}

	thread := strings.TrimSpace(req.ThreadID)
	if thread == "" {
		// Every unlabeled conversation gets its own thread rather than
		// sharing one default history.
		thread = uuid.NewString()
	}

	message, notice := s.resolveUserMessage(c.Context(), &req)
	if notice != "" {
		return c.JSON(chatResponse{
			ThreadID: thread,
			Messages: []chatEntry{{Role: "assistant", Content: notice}},
		})
	}

	entries := []chatEntry{{Role: "user", Content: message}}

	reply, err := s.responder.Respond(c.Context(), thread, message)
	if err != nil {
		s.logger.Error("turn failed",
			zap.String("thread_id", thread),
			zap.Error(err),
		)
		entries = append(entries, chatEntry{
			Role:    "assistant",
			Content: fmt.Sprintf("Sorry, I encountered an error: %v", err),
		})
	} else {
		entries = append(entries, chatEntry{Role: "assistant", Content: reply})
	}

	return c.JSON(chatResponse{ThreadID: thread, Messages: entries})
}

// resolveUserMessage applies the input precedence rule: non-empty text wins;
// otherwise audio is transcribed; otherwise the caller is prompted for input.
// A non-empty notice means the orchestrator must not be contacted.
func (s *Server) resolveUserMessage(ctx context.Context, req *chatRequest) (message, notice string) {
	if strings.TrimSpace(req.Text) != "" {
		return req.Text, ""
	}

	if req.Audio != nil && req.Audio.PCM != "" {
		if s.transcriber == nil {
			return "", noticeTranscribeFailed
		}

		pcm, err := decodePCM(req.Audio.PCM)
		if err != nil {
			return "", noticeBadAudio
		}

		path, err := transcribe.WriteTempWAV(transcribe.Clip{
			SampleRate: req.Audio.SampleRate,
			PCM:        pcm,
		})
		if err != nil {
			return "", noticeBadAudio
		}
		// The temp file is scoped to this attempt, success or failure.
		defer os.Remove(path)

		text, err := s.transcriber.Transcribe(ctx, path)
		if err != nil {
			s.logger.Warn("transcription failed", zap.Error(err))
			return "", noticeTranscribeFailed
		}
		if strings.TrimSpace(text) == "" {
			return "", noticeTranscribeFailed
		}
		return text, ""
	}

	return "", noticeNoInput
}

// decodePCM decodes base64-encoded 16-bit little-endian samples.
func decodePCM(encoded string) ([]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if len(raw) == 0 || len(raw)%2 != 0 {
		return nil, fmt.Errorf("invalid sample data length %d", len(raw))
	}
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return pcm, nil
}
