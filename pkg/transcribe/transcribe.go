// Package transcribe converts captured audio into text via a hosted
// speech-to-text backend.
package transcribe

import (
	"context"
	"fmt"
	"os"
)

// Transcriber converts a WAV file on disk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Clip is a captured microphone recording: a sample rate and raw 16-bit PCM
// samples (mono).
type Clip struct {
	SampleRate int     `json:"sample_rate"`
	PCM        []int16 `json:"-"`
}

// WriteTempWAV encodes the clip into a uniquely named temporary WAV file and
// returns its path. Callers must remove the file after the transcription
// attempt, whether it succeeds or fails.
func WriteTempWAV(clip Clip) (string, error) {
	if clip.SampleRate <= 0 {
		return "", fmt.Errorf("invalid sample rate %d", clip.SampleRate)
	}
	if len(clip.PCM) == 0 {
		return "", fmt.Errorf("empty audio clip")
	}

	f, err := os.CreateTemp("", "healthdesk-audio-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if err := EncodeWAV(f, clip.SampleRate, clip.PCM); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("encode wav: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}
