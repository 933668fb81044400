package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/pkg/llm"
	"github.com/healthdeskco/healthdesk/pkg/store"
	"github.com/healthdeskco/healthdesk/pkg/transcribe"
)

type recordedTurn struct {
	thread  string
	message string
}

type fakeResponder struct {
	turns []recordedTurn
	reply string
	err   error
}

func (f *fakeResponder) Respond(_ context.Context, threadID, message string) (string, error) {
	f.turns = append(f.turns, recordedTurn{thread: threadID, message: message})
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	paths []string
	// existed records whether the WAV file was present when Transcribe ran.
	existed []bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, wavPath string) (string, error) {
	f.paths = append(f.paths, wavPath)
	_, statErr := os.Stat(wavPath)
	f.existed = append(f.existed, statErr == nil)
	return f.text, f.err
}

func testServer(t *testing.T, responder *fakeResponder, transcriber *fakeTranscriber) (*Server, *store.MemoryStore) {
	t.Helper()
	histories := store.NewMemoryStore()
	// Avoid a typed-nil Transcriber interface when no fake is given.
	var tr transcribe.Transcriber
	if transcriber != nil {
		tr = transcriber
	}
	s := New(Config{ListenAddr: ":0"}, responder, tr, histories, zap.NewNop())
	return s, histories
}

func postChat(t *testing.T, s *Server, body map[string]any) (int, chatResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var out chatResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func encodePCM(samples []int16) string {
	raw := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(sample))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := testServer(t, &fakeResponder{reply: "ok"}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestChatWithText(t *testing.T) {
	responder := &fakeResponder{reply: "🟢 Green. Flu usually passes in a week. Ask your doctor about antivirals."}
	s, _ := testServer(t, responder, nil)

	status, out := postChat(t, s, map[string]any{"text": "What are the symptoms of flu?"})
	assert.Equal(t, 200, status)

	require.Len(t, responder.turns, 1)
	assert.Equal(t, "What are the symptoms of flu?", responder.turns[0].message)
	assert.NotEmpty(t, out.ThreadID, "a fresh thread id is generated when unspecified")
	assert.Equal(t, responder.turns[0].thread, out.ThreadID)

	require.Len(t, out.Messages, 2)
	assert.Equal(t, "user", out.Messages[0].Role)
	assert.Equal(t, "assistant", out.Messages[1].Role)
	assert.Contains(t, out.Messages[1].Content, "🟢")
}

func TestChatKeepsExplicitThreadID(t *testing.T) {
	responder := &fakeResponder{reply: "hi"}
	s, _ := testServer(t, responder, nil)

	_, out := postChat(t, s, map[string]any{"thread_id": "my-thread", "text": "hello"})
	assert.Equal(t, "my-thread", out.ThreadID)
	assert.Equal(t, "my-thread", responder.turns[0].thread)
}

func TestChatGeneratesUniqueThreadIDs(t *testing.T) {
	responder := &fakeResponder{reply: "hi"}
	s, _ := testServer(t, responder, nil)

	_, first := postChat(t, s, map[string]any{"text": "one"})
	_, second := postChat(t, s, map[string]any{"text": "two"})
	assert.NotEqual(t, first.ThreadID, second.ThreadID)
}

func TestChatTextTakesPrecedenceOverAudio(t *testing.T) {
	responder := &fakeResponder{reply: "answer"}
	transcriber := &fakeTranscriber{text: "should not be used"}
	s, _ := testServer(t, responder, transcriber)

	_, out := postChat(t, s, map[string]any{
		"text": "typed question",
		"audio": map[string]any{
			"sample_rate": 16000,
			"pcm":         encodePCM([]int16{1, 2, 3}),
		},
	})

	assert.Empty(t, transcriber.paths, "audio must be ignored when text is present")
	require.Len(t, responder.turns, 1)
	assert.Equal(t, "typed question", responder.turns[0].message)
	assert.Equal(t, "typed question", out.Messages[0].Content)
}

func TestChatAudioIsTranscribed(t *testing.T) {
	responder := &fakeResponder{reply: "🟡 Yellow. Watch the fever."}
	transcriber := &fakeTranscriber{text: "What are the symptoms of flu?"}
	s, _ := testServer(t, responder, transcriber)

	_, out := postChat(t, s, map[string]any{
		"audio": map[string]any{
			"sample_rate": 16000,
			"pcm":         encodePCM([]int16{10, -10, 20, -20}),
		},
	})

	require.Len(t, transcriber.paths, 1)
	assert.True(t, transcriber.existed[0], "WAV file must exist during transcription")

	_, statErr := os.Stat(transcriber.paths[0])
	assert.True(t, os.IsNotExist(statErr), "temp WAV must be removed after the turn")

	require.Len(t, responder.turns, 1)
	assert.Equal(t, "What are the symptoms of flu?", responder.turns[0].message)
	assert.Equal(t, "user", out.Messages[0].Role)
	assert.Equal(t, "What are the symptoms of flu?", out.Messages[0].Content)
}

func TestChatEmptyTranscriptIsNotice(t *testing.T) {
	responder := &fakeResponder{reply: "unused"}
	transcriber := &fakeTranscriber{text: ""}
	s, _ := testServer(t, responder, transcriber)

	_, out := postChat(t, s, map[string]any{
		"audio": map[string]any{
			"sample_rate": 16000,
			"pcm":         encodePCM([]int16{0, 0, 0}),
		},
	})

	require.Len(t, out.Messages, 1)
	assert.Equal(t, "❌ Sorry, I couldn't transcribe the audio. Please try again.", out.Messages[0].Content)
	assert.Empty(t, responder.turns, "orchestrator must not be contacted")

	// Temp file is gone on the failure path too.
	require.Len(t, transcriber.paths, 1)
	_, statErr := os.Stat(transcriber.paths[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestChatTranscriptionErrorIsNotice(t *testing.T) {
	responder := &fakeResponder{}
	transcriber := &fakeTranscriber{err: errors.New("backend down")}
	s, _ := testServer(t, responder, transcriber)

	_, out := postChat(t, s, map[string]any{
		"audio": map[string]any{"sample_rate": 8000, "pcm": encodePCM([]int16{5})},
	})

	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0].Content, "couldn't transcribe")
	assert.Empty(t, responder.turns)
}

func TestChatMalformedAudioIsNotice(t *testing.T) {
	responder := &fakeResponder{}
	transcriber := &fakeTranscriber{text: "unused"}
	s, _ := testServer(t, responder, transcriber)

	_, out := postChat(t, s, map[string]any{
		"audio": map[string]any{"sample_rate": 8000, "pcm": "not-base64!!!"},
	})

	require.Len(t, out.Messages, 1)
	assert.Equal(t, "❌ Error processing audio data.", out.Messages[0].Content)
	assert.Empty(t, transcriber.paths)
	assert.Empty(t, responder.turns)
}

func TestChatNoInputIsNotice(t *testing.T) {
	responder := &fakeResponder{}
	s, _ := testServer(t, responder, nil)

	_, out := postChat(t, s, map[string]any{"text": "   "})

	require.Len(t, out.Messages, 1)
	assert.Equal(t, "Please provide a message via text or voice.", out.Messages[0].Content)
	assert.Empty(t, responder.turns)
}

func TestChatResponderFailureIsVisible(t *testing.T) {
	responder := &fakeResponder{err: errors.New("model unavailable")}
	s, _ := testServer(t, responder, nil)

	status, out := postChat(t, s, map[string]any{"text": "question"})
	assert.Equal(t, 200, status)

	require.Len(t, out.Messages, 2)
	assert.Contains(t, out.Messages[1].Content, "Sorry, I encountered an error")
	assert.Contains(t, out.Messages[1].Content, "model unavailable")
}

func TestChatRejectsMalformedBody(t *testing.T) {
	s, _ := testServer(t, &fakeResponder{}, nil)

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestExamplesEndpoint(t *testing.T) {
	s, _ := testServer(t, &fakeResponder{}, nil)

	req := httptest.NewRequest("GET", "/api/examples", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Examples []string `json:"examples"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Examples, "What are the symptoms of flu?")
}

func TestHistoryEndpointFiltersToolTraffic(t *testing.T) {
	s, histories := testServer(t, &fakeResponder{}, nil)

	require.NoError(t, histories.Put(context.Background(), "t1", []llm.Message{
		{Role: llm.RoleUser, Content: "What are the symptoms of flu?"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1", Name: "general_search"}}},
		{Role: llm.RoleTool, Content: "raw results", ToolCallID: "c1"},
		{Role: llm.RoleAssistant, Content: "🟢 Green. Mostly rest and fluids."},
	}))

	req := httptest.NewRequest("GET", "/api/history/t1", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		ThreadID string      `json:"thread_id"`
		Messages []chatEntry `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "assistant", body.Messages[1].Role)
}

func TestClearHistoryEndpoint(t *testing.T) {
	s, histories := testServer(t, &fakeResponder{}, nil)
	require.NoError(t, histories.Put(context.Background(), "t1", []llm.Message{
		{Role: llm.RoleUser, Content: "x"},
	}))

	req := httptest.NewRequest("DELETE", "/api/history/t1", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	msgs, err := histories.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
