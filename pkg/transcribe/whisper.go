package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Whisper implements Transcriber using the OpenAI audio transcription API.
type Whisper struct {
	client *openai.Client
	model  openai.AudioModel
}

// NewWhisper creates a Whisper-backed Transcriber.
func NewWhisper(apiKey string) *Whisper {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Whisper{
		client: &client,
		model:  openai.AudioModelWhisper1,
	}
}

// Transcribe submits the WAV file at wavPath and returns the transcript text.
func (t *Whisper) Transcribe(ctx context.Context, wavPath string) (string, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: t.model,
		File:  f,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
