package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mocks.go -package=mocks lifeos-backend/internal/service Transcriber,TextGenerator,SpeechSynthesizer,Cache,AudioStore

import (
	"context"
	"io"
	"time"

	"lifeos-backend/internal/domain"
)

// Transcriber submits and inspects asynchronous speech-to-text jobs.
type Transcriber interface {
	Submit(ctx context.Context, audioURL string) (*domain.TranscriptionJob, error)
	Fetch(ctx context.Context, id string) (*domain.TranscriptionJob, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Cache is a string key/value store with expiry. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type AudioStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// EventPublisher pushes a change notification to a user's live connections.
type EventPublisher interface {
	PublishToUser(userID, eventType string, payload interface{})
}

// Interpreter rewrites free text according to an instruction.
type Interpreter interface {
	Interpret(ctx context.Context, text, instruction string) string
}
