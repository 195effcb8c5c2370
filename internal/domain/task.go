package domain

import "time"

const (
	DefaultTaskPriority = "medium"
	DefaultTaskStatus   = "pending"
)

// Task priority and status are free-form strings; the defaults above apply when omitted.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTaskRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
	Priority    string `json:"priority" validate:"omitempty,max=50"`
}

type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1,max=2000"`
	Priority    *string `json:"priority" validate:"omitempty,min=1,max=50"`
	Status      *string `json:"status" validate:"omitempty,min=1,max=50"`
}

func (r *UpdateTaskRequest) Apply(task *Task) bool {
	changed := false
	if r.Description != nil {
		task.Description = *r.Description
		changed = true
	}
	if r.Priority != nil {
		task.Priority = *r.Priority
		changed = true
	}
	if r.Status != nil {
		task.Status = *r.Status
		changed = true
	}
	return changed
}

func (r *UpdateTaskRequest) Fields() []string {
	var fields []string
	if r.Description != nil {
		fields = append(fields, "description")
	}
	if r.Priority != nil {
		fields = append(fields, "priority")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

type TaskCreatedResponse struct {
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
