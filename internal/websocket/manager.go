// Package websocket pushes note and task change events to a user's open connections.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

type Config struct {
	MaxConnPerUser int
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

type Manager struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	done           chan struct{}
	maxConnPerUser int
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	maxMessageSize int64
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxConnPerUser <= 0 {
		cfg.MaxConnPerUser = 5
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}

	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		done:           make(chan struct{}),
		maxConnPerUser: cfg.MaxConnPerUser,
		writeWait:      cfg.WriteWait,
		pongWait:       cfg.PongWait,
		pingPeriod:     cfg.PingPeriod,
		maxMessageSize: cfg.MaxMessageSize,
	}
}

// Run serves registrations and inbound messages until ctx is cancelled, then closes
// every remaining connection.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)

		case <-ctx.Done():
			m.closeAll()
			close(m.done)
			return
		}
	}
}

// Serve registers client and starts its pumps. It reports false once the manager has stopped.
func (m *Manager) Serve(client *Client) bool {
	select {
	case m.Register <- client:
	case <-m.done:
		_ = client.Conn.Close()
		return false
	}

	go client.WritePump()
	go client.ReadPump()
	return true
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if len(m.userIndex[client.UserID]) >= m.maxConnPerUser {
		slog.Warn("max connections reached", "user_id", client.UserID)
		close(client.Send)
		return
	}

	if m.userIndex[client.UserID] == nil {
		m.userIndex[client.UserID] = make(map[string]bool)
	}

	m.clients[client.ID] = client
	m.userIndex[client.UserID][client.ID] = true

	slog.Debug("client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	m.removeLocked(client)
}

func (m *Manager) removeLocked(client *Client) {
	if _, ok := m.clients[client.ID]; !ok {
		return
	}

	delete(m.clients, client.ID)
	delete(m.userIndex[client.UserID], client.ID)
	if len(m.userIndex[client.UserID]) == 0 {
		delete(m.userIndex, client.UserID)
	}

	close(client.Send)
	slog.Debug("client unregistered", "client_id", client.ID)
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for _, client := range m.clients {
		m.removeLocked(client)
	}
}

func (m *Manager) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		slog.Debug("ignoring malformed websocket message", "client_id", clientMsg.Client.ID, "error", err)
		return
	}

	switch msg.Type {
	case TypePing:
		pong, err := NewMessage(TypePong, nil)
		if err != nil {
			return
		}
		m.SendToClient(clientMsg.Client.ID, pong)
	default:
		slog.Debug("unknown message type", "type", msg.Type)
	}
}

// PublishToUser delivers an event to every connection of userID. A client whose send
// buffer is full is dropped.
func (m *Manager) PublishToUser(userID, eventType string, payload interface{}) {
	message, err := NewMessage(MessageType(eventType), payload)
	if err != nil {
		slog.Error("failed to encode event", "type", eventType, "error", err)
		return
	}

	if err := m.BroadcastToUser(userID, message); err != nil {
		slog.Error("failed to broadcast event", "type", eventType, "error", err)
	}
}

func (m *Manager) BroadcastToUser(userID string, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var stalled []*Client

	m.clientsMutex.RLock()
	for clientID := range m.userIndex[userID] {
		client := m.clients[clientID]
		select {
		case client.Send <- messageBytes:
		default:
			stalled = append(stalled, client)
		}
	}
	m.clientsMutex.RUnlock()

	for _, client := range stalled {
		slog.Warn("send buffer full, closing connection", "client_id", client.ID)
		m.unregisterClient(client)
	}

	return nil
}

func (m *Manager) SendToClient(clientID string, message *Message) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		slog.Warn("send buffer full", "client_id", clientID)
	}
}

func (m *Manager) UserConnections(userID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.userIndex[userID])
}
