package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	EventNoteCreated = "note_created"
	EventNoteUpdated = "note_updated"
	EventNoteDeleted = "note_deleted"
)

type NoteService struct {
	repo   repository.NoteRepository
	events EventPublisher
}

func NewNoteService(repo repository.NoteRepository, events EventPublisher) *NoteService {
	return &NoteService{
		repo:   repo,
		events: events,
	}
}

func (s *NoteService) publish(userID, eventType string, payload interface{}) {
	if s.events != nil {
		s.events.PublishToUser(userID, eventType, payload)
	}
}

func (s *NoteService) Create(ctx context.Context, userID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	now := time.Now().UTC()

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	note := &domain.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	s.publish(userID, EventNoteCreated, note)
	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.repo.List(ctx, userID)
}

// Get returns the note only when userID owns it.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if note.UserID != userID {
		return nil, ErrNotFound
	}

	return note, nil
}

// Update merges the provided fields and always advances updated_at.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	req.Apply(note)
	note.UpdatedAt = nextTimestamp(note.UpdatedAt)

	matched, err := s.repo.Update(ctx, note, req.Fields()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if !matched {
		return nil, ErrNotFound
	}

	s.publish(userID, EventNoteUpdated, note)
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.Get(ctx, userID, noteID); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !removed {
		return ErrNotFound
	}

	s.publish(userID, EventNoteDeleted, map[string]string{"id": noteID})
	return nil
}

// nextTimestamp returns now, or just after prev when the clock has not moved past it.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
