package service

import (
	"context"
	"fmt"
	"strings"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"
)

type SpeechService struct {
	synthesizer SpeechSynthesizer
}

func NewSpeechService(synthesizer SpeechSynthesizer) *SpeechService {
	return &SpeechService{synthesizer: synthesizer}
}

// Synthesize returns WAV audio for text, using the default voice when none is given.
func (s *SpeechService) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(voice) == "" {
		voice = domain.DefaultVoice
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Error("TTS synthesis failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	contextutil.LoggerFromContext(ctx).Info("Synthesized speech", "text", preview(text, 50), "bytes", len(audio))

	return audio, nil
}

// preview keeps the first n characters of text.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
