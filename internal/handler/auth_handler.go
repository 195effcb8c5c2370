package handler

import (
	"errors"
	"net/http"

	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/service"
	"lifeos-backend/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newValidator(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.authService.Register(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.BadRequest(w, "Email already registered")
			return
		}
		writeServiceError(w, r, err, "")
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	loginResp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.BadRequest(w, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			response.BadRequest(w, "Invalid credentials")
		default:
			writeServiceError(w, r, err, "")
		}
		return
	}

	response.Success(w, loginResp)
}
