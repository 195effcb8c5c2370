package handler

import (
	"net/http"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/service"
	"lifeos-backend/pkg/response"

	"github.com/go-playground/validator/v10"
)

type LearningHandler struct {
	service  *service.LearningService
	validate *validator.Validate
}

func NewLearningHandler(service *service.LearningService) *LearningHandler {
	return &LearningHandler{
		service:  service,
		validate: newValidator(),
	}
}

// Suggest always answers 200 once the body is valid; generation failures yield an empty suggestion.
func (h *LearningHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req domain.SuggestionRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	response.Success(w, h.service.Suggest(r.Context(), req.UserInput))
}
