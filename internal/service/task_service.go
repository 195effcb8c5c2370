package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
)

// TaskInstruction guides the rewrite of a free-text task description.
const TaskInstruction = "Extract task from text"

type TaskService struct {
	repo        repository.TaskRepository
	interpreter Interpreter
	events      EventPublisher
}

func NewTaskService(repo repository.TaskRepository, interpreter Interpreter, events EventPublisher) *TaskService {
	return &TaskService{
		repo:        repo,
		interpreter: interpreter,
		events:      events,
	}
}

func (s *TaskService) publish(task *domain.Task, eventType string, payload interface{}) {
	if s.events != nil && task.UserID != "" {
		s.events.PublishToUser(task.UserID, eventType, payload)
	}
}

func (s *TaskService) Create(ctx context.Context, userID string, req *domain.CreateTaskRequest) (*domain.Task, error) {
	description := req.Description
	if s.interpreter != nil {
		if interpreted := strings.TrimSpace(s.interpreter.Interpret(ctx, description, TaskInstruction)); interpreted != "" {
			description = interpreted
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.DefaultTaskPriority
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Priority:    priority,
		Status:      domain.DefaultTaskStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(task, EventTaskCreated, task)
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, taskID string, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	req.Apply(task)
	return s.save(ctx, task, req.Fields()...)
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID, status string) (*domain.Task, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, &ValidationError{Field: "status", Message: "status is required"}
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	return s.save(ctx, task, "status")
}

// save persists only the named fields so concurrent edits to other fields survive.
func (s *TaskService) save(ctx context.Context, task *domain.Task, fields ...string) (*domain.Task, error) {
	task.UpdatedAt = nextTimestamp(task.UpdatedAt)

	matched, err := s.repo.Update(ctx, task, fields...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !matched {
		return nil, ErrNotFound
	}

	s.publish(task, EventTaskUpdated, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !removed {
		return ErrNotFound
	}

	s.publish(task, EventTaskDeleted, map[string]string{"id": taskID})
	return nil
}
