package handler

import (
	"net/http"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/middleware"
	"lifeos-backend/internal/service"
	"lifeos-backend/internal/websocket"
	"lifeos-backend/pkg/response"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager     *websocket.Manager
	authService *service.AuthService
	upgrader    ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		manager:     manager,
		authService: authService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	logger := contextutil.LoggerFromContext(r.Context())

	token := middleware.BearerToken(r)
	if token == "" {
		response.Unauthorized(w, "Missing authorization token")
		return
	}

	claims, err := h.authService.VerifyToken(token)
	if err != nil {
		logger.Warn("WebSocket token rejected", "error", err)
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.manager)
	if !h.manager.Serve(client) {
		logger.Warn("WebSocket connection refused", "user_id", claims.UserID)
		return
	}

	logger.Info("WebSocket connected", "user_id", claims.UserID, "client_id", client.ID)
}
