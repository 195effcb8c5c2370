package repository

import (
	"context"
	"fmt"
	"time"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task, fields ...string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type taskRepository struct {
	client *kivik.Client
	dbName string
}

func NewTaskRepository(client *kivik.Client, dbPrefix string) TaskRepository {
	return &taskRepository{
		client: client,
		dbName: DatabaseName(dbPrefix, CollectionTasks),
	}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, task.ID, task); err != nil {
		contextutil.LoggerFromContext(ctx).Error("Failed to insert task", "error", err)
		return fmt.Errorf("%w: cannot insert task", ErrDatabase)
	}

	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	docID, ok := documentID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var task domain.Task
	if err := r.client.DB(r.dbName).Get(ctx, docID).ScanDoc(&task); err != nil {
		if !isNotFound(err) {
			contextutil.LoggerFromContext(ctx).Error("Failed to fetch task", "task_id", id, "error", err)
		}
		return nil, ErrNotFound
	}

	return &task, nil
}

// List returns up to PageSize tasks. Store failures yield an empty list.
func (r *taskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	db := r.client.DB(r.dbName)
	logger := contextutil.LoggerFromContext(ctx)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"created_at": map[string]interface{}{"$exists": true},
		},
		"limit": PageSize,
	}

	rows := db.Find(ctx, query)
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.ScanDoc(&task); err != nil {
			logger.Warn("Skipping unreadable task document", "error", err)
			continue
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Failed to fetch tasks", "error", err)
		return []*domain.Task{}, nil
	}

	return tasks, nil
}

// Update writes only the named fields and updated_at.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task, fields ...string) (bool, error) {
	docID, ok := documentID(task.ID)
	if !ok {
		return false, nil
	}

	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now().UTC()
	}

	values := map[string]interface{}{
		"description": task.Description,
		"priority":    task.Priority,
		"status":      task.Status,
	}
	changes := map[string]interface{}{"updated_at": task.UpdatedAt}
	for _, field := range fields {
		if value, ok := values[field]; ok {
			changes[field] = value
		}
	}

	merged, matched, err := mergeUpdate(ctx, r.client.DB(r.dbName), docID, changes)
	if err != nil {
		contextutil.LoggerFromContext(ctx).Error("Failed to update task", "task_id", task.ID, "error", err)
		return false, fmt.Errorf("%w: cannot update task", ErrDatabase)
	}
	if !matched {
		return false, nil
	}

	if err := decodeDoc(merged, task); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("Failed to refresh updated task", "task_id", task.ID, "error", err)
	}
	return true, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	docID, ok := documentID(id)
	if !ok {
		return false, nil
	}

	db := r.client.DB(r.dbName)

	existingDoc, err := fetchRaw(ctx, db, docID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: cannot delete task: %v", ErrDatabase, err)
	}

	rev, err := revision(existingDoc)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if _, err := db.Delete(ctx, docID, rev); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: cannot delete task: %v", ErrDatabase, err)
	}

	return true, nil
}
