package router

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := m.users[key]; ok {
		return repository.ErrAlreadyExists
	}
	m.users[key] = user
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[strings.ToLower(email)]
	return ok, nil
}

type memNotes struct {
	mu    sync.Mutex
	notes map[string]domain.Note
}

func (m *memNotes) Create(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.ID] = *note
	return nil
}

func (m *memNotes) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (m *memNotes) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Note, 0)
	for _, n := range m.notes {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	return out, nil
}

func (m *memNotes) Update(ctx context.Context, note *domain.Note, fields ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[note.ID]; !ok {
		return false, nil
	}
	m.notes[note.ID] = *note
	return true, nil
}

func (m *memNotes) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
}

func (m *memTasks) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

func (m *memTasks) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *memTasks) List(ctx context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (m *memTasks) Update(ctx context.Context, task *domain.Task, fields ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return false, nil
	}
	m.tasks[task.ID] = *task
	return true, nil
}

func (m *memTasks) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

type memTranscripts struct {
	mu    sync.Mutex
	saved []*domain.Transcript
}

func (m *memTranscripts) Create(ctx context.Context, transcript *domain.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, transcript)
	return nil
}
