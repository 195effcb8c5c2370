package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultPollInterval = time.Second
	DefaultMaxWait      = 5 * time.Minute
	DefaultCacheTTL     = time.Hour

	cacheKeyPrefix = "transcript_"
)

type TranscriptionConfig struct {
	PollInterval time.Duration
	MaxWait      time.Duration
	CacheTTL     time.Duration
}

type TranscriptionService struct {
	transcriber Transcriber
	cache       Cache
	repo        repository.TranscriptRepository
	store       AudioStore
	cfg         TranscriptionConfig
}

// NewTranscriptionService wires the pipeline. A nil cache disables caching; a nil store
// disables uploads.
func NewTranscriptionService(
	transcriber Transcriber,
	cache Cache,
	repo repository.TranscriptRepository,
	store AudioStore,
	cfg TranscriptionConfig,
) *TranscriptionService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &TranscriptionService{
		transcriber: transcriber,
		cache:       cache,
		repo:        repo,
		store:       store,
		cfg:         cfg,
	}
}

func CacheKey(audioURL string) string {
	return cacheKeyPrefix + audioURL
}

// TranscribeUpload stores the audio, then transcribes it from the resulting locator.
func (s *TranscriptionService) TranscribeUpload(ctx context.Context, name, contentType string, body io.Reader) (*domain.TranscriptResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no audio store configured", ErrAudioUpload)
	}

	audioURL, err := s.store.Put(ctx, name, contentType, body)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Error("Audio upload failed", "file", name, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAudioUpload, err)
	}

	return s.Transcribe(ctx, audioURL)
}

// Transcribe returns the transcript for audioURL. Vendor failures are fatal; cache and
// archive failures are logged and ignored.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioURL string) (*domain.TranscriptResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	key := CacheKey(audioURL)

	if cached, ok := s.readCache(ctx, key); ok {
		logger.Info("Returning cached transcript", "transcript_id", cached.TranscriptID)
		return cached, nil
	}

	job, err := s.transcriber.Submit(ctx, audioURL)
	if err != nil {
		logger.Error("Transcription request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionUnavailable, err)
	}

	job, err = s.await(ctx, job)
	if err != nil {
		logger.Error("Error during transcription polling", "error", err)
		return nil, err
	}

	result := &domain.TranscriptResult{
		TranscriptID: job.ID,
		Text:         job.Text,
		Confidence:   valueOrZero(job.Confidence),
		Duration:     valueOrZero(job.AudioDuration),
	}

	// cache and archive writes survive a client disconnect
	detached := context.WithoutCancel(ctx)
	s.writeCache(detached, key, result)
	s.archive(detached, result)

	logger.Info("Transcribed audio successfully", "transcript_id", job.ID)
	return result, nil
}

func (s *TranscriptionService) await(ctx context.Context, job *domain.TranscriptionJob) (*domain.TranscriptionJob, error) {
	deadline := time.NewTimer(s.cfg.MaxWait)
	defer deadline.Stop()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for !job.Status.Terminal() {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrTranscriptionTimeout
			}
			return nil, fmt.Errorf("transcription abandoned: %w", ctx.Err())
		case <-deadline.C:
			return nil, fmt.Errorf("%w after %s", ErrTranscriptionTimeout, s.cfg.MaxWait)
		case <-ticker.C:
		}

		next, err := s.transcriber.Fetch(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
		}
		job = next
	}

	if job.Status == domain.JobStatusError {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptionFailed, job.Error)
	}
	return job, nil
}

func (s *TranscriptionService) readCache(ctx context.Context, key string) (*domain.TranscriptResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	logger := contextutil.LoggerFromContext(ctx)

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result domain.TranscriptResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}

	return &result, true
}

func (s *TranscriptionService) writeCache(ctx context.Context, key string, result *domain.TranscriptResult) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Warn("Cache encode failed", "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, string(raw), s.cfg.CacheTTL); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("Cache write failed", "error", err)
	}
}

func (s *TranscriptionService) archive(ctx context.Context, result *domain.TranscriptResult) {
	if s.repo == nil {
		return
	}

	record := &domain.Transcript{
		ID:               uuid.New().String(),
		TranscriptResult: *result,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		contextutil.LoggerFromContext(ctx).Error("Database insert failed", "transcript_id", result.TranscriptID, "error", err)
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
