package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/HSouheill/admarket_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Define notification types
const (
	NotificationTypeConnected    = "connected"
	NotificationTypeStatusChange = "application_status_changed"
)

const sendBuffer = 16

// ErrNotConnected is returned when the recipient has no open connection
var ErrNotConnected = errors.New("user not connected")

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client is one open connection of a user. A user may hold several.
type Client struct {
	UserID primitive.ObjectID
	send   chan Notification
}

func newClient(userID primitive.ObjectID) *Client {
	return &Client{UserID: userID, send: make(chan Notification, sendBuffer)}
}

// Hub maintains the set of active clients and routes notifications to them
type Hub struct {
	clients    map[primitive.ObjectID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's event loop and closes every client when ctx ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for userID, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				close(client.send)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Connected reports whether the user has at least one open connection
func (h *Hub) Connected(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendToUser queues a message on every connection of a user. Connections
// whose buffer is full miss the message.
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.clients[userID]
	if len(conns) == 0 {
		return ErrNotConnected
	}
	for client := range conns {
		select {
		case client.send <- notification:
		default:
			h.logger.Warn("Dropping websocket notification, client is slow",
				zap.String("user_id", userID.Hex()),
				zap.String("type", notification.Type))
		}
	}
	return nil
}

// NotifyStatusChange tells a party of an application that it moved
func (h *Hub) NotifyStatusChange(recipient primitive.ObjectID, event models.StatusChangeEvent) error {
	return h.SendToUser(recipient, Notification{
		Type:    NotificationTypeStatusChange,
		Message: "Application moved from " + event.From.String() + " to " + event.To.String(),
		Data:    event,
		UserID:  recipient.Hex(),
	})
}
