package handler

import (
	"net/http"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/middleware"
	"lifeos-backend/internal/service"
	"lifeos-backend/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const taskNotFound = "Task not found"

type TaskHandler struct {
	service  *service.TaskService
	validate *validator.Validate
}

func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	task, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Created(w, domain.TaskCreatedResponse{
		TaskID:      task.ID,
		Description: task.Description,
		Status:      task.Status,
	})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Success(w, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Success(w, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateTaskRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if _, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &req); err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Task updated successfully")
}

// UpdateStatus accepts the new status as a query parameter or a JSON body.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		var req domain.UpdateTaskStatusRequest
		if !decodeAndValidate(w, r, h.validate, &req) {
			return
		}
		status = req.Status
	}

	if _, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["id"], status); err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Status updated")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, taskNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Task deleted successfully")
}
