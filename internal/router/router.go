package router

import (
	"log/slog"
	"net/http"

	"lifeos-backend/internal/handler"
	"lifeos-backend/internal/middleware"
	"lifeos-backend/internal/service"
	"lifeos-backend/internal/websocket"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

type CORS struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Deps is everything the route table needs. Logger may be nil.
type Deps struct {
	Auth          *service.AuthService
	Notes         *service.NoteService
	Tasks         *service.TaskService
	Transcription *service.TranscriptionService
	Speech        *service.SpeechService
	Learning      *service.LearningService
	WebSocket     *websocket.Manager

	Logger         *slog.Logger
	CORS           CORS
	MaxUploadBytes int64
}

func New(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	noteHandler := handler.NewNoteHandler(deps.Notes)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	speechHandler := handler.NewSpeechHandler(deps.Transcription, deps.Speech, deps.MaxUploadBytes)
	learningHandler := handler.NewLearningHandler(deps.Learning)
	wsHandler := handler.NewWebSocketHandler(deps.WebSocket, deps.Auth)

	requireAuth := middleware.AuthMiddleware(deps.Auth)

	r := mux.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.CORSMiddleware(
		deps.CORS.AllowedOrigins,
		deps.CORS.AllowedMethods,
		deps.CORS.AllowedHeaders,
	))

	r.HandleFunc("/", handler.Root).Methods("GET")
	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.HandleFunc("/ws", wsHandler.HandleConnection).Methods("GET")

	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	api := r.PathPrefix("/api").Subrouter()

	notes := api.PathPrefix("/notes").Subrouter()
	notes.Use(requireAuth)
	notes.HandleFunc("", noteHandler.List).Methods("GET", "OPTIONS")
	notes.HandleFunc("", noteHandler.Create).Methods("POST", "OPTIONS")
	notes.HandleFunc("/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	notes.HandleFunc("/{id}", noteHandler.Update).Methods("PATCH", "OPTIONS")
	notes.HandleFunc("/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")

	api.Handle("/tasks", requireAuth(http.HandlerFunc(taskHandler.Create))).Methods("POST", "OPTIONS")
	api.Handle("/tasks/create", requireAuth(http.HandlerFunc(taskHandler.Create))).Methods("POST", "OPTIONS")
	api.HandleFunc("/tasks", taskHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/tasks/{id}", taskHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/tasks/{id}", taskHandler.Update).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/tasks/{id}/status", taskHandler.UpdateStatus).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/tasks/{id}", taskHandler.Delete).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/speech/upload-and-transcribe", speechHandler.UploadAndTranscribe).Methods("POST", "OPTIONS")
	api.HandleFunc("/speech/synthesize", speechHandler.Synthesize).Methods("POST", "OPTIONS")

	api.HandleFunc("/learning/suggest", learningHandler.Suggest).Methods("POST", "OPTIONS")

	return r
}
