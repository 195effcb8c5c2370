package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockUserRepo struct {
	users     map[string]*domain.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

type mockNoteRepo struct {
	notes      map[string]*domain.Note
	lastFields []string
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*domain.Note)}
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	copied := *note
	m.notes[note.ID] = &copied
	return nil
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	if n, ok := m.notes[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockNoteRepo) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	for _, n := range m.notes {
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *domain.Note, fields ...string) (bool, error) {
	m.lastFields = fields
	if _, ok := m.notes[note.ID]; !ok {
		return false, nil
	}
	copied := *note
	m.notes[note.ID] = &copied
	return true, nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.notes[id]; !ok {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

type mockTaskRepo struct {
	tasks      map[string]*domain.Task
	lastFields []string
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task, fields ...string) (bool, error) {
	m.lastFields = fields
	if _, ok := m.tasks[task.ID]; !ok {
		return false, nil
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return true, nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

type mockTranscriptRepo struct {
	mu      sync.Mutex
	records []*domain.Transcript
	err     error
}

func (m *mockTranscriptRepo) Create(ctx context.Context, transcript *domain.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, transcript)
	return nil
}

func (m *mockTranscriptRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type publishedEvent struct {
	userID    string
	eventType string
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) PublishToUser(userID, eventType string, payload interface{}) {
	p.events = append(p.events, publishedEvent{userID: userID, eventType: eventType})
}

type stubInterpreter struct {
	out string
}

func (s stubInterpreter) Interpret(ctx context.Context, text, instruction string) string {
	return s.out
}
