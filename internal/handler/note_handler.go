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

const noteNotFound = "Note not found"

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		writeServiceError(w, r, err, noteNotFound)
		return
	}

	response.Created(w, domain.NoteCreatedResponse{NoteID: note.ID})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, r, err, noteNotFound)
		return
	}

	response.Success(w, domain.NoteListResponse{Notes: notes})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, noteNotFound)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if _, err := h.service.Update(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"], &req); err != nil {
		writeServiceError(w, r, err, noteNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Note updated successfully")
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, noteNotFound)
		return
	}

	response.Message(w, http.StatusOK, "Note deleted successfully")
}
