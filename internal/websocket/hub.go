package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"fitocharity-chatbot-be/internal/entity"
	"fitocharity-chatbot-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const progressChannel = "kb_ingest_progress"

// Hub fans ingestion progress out to connected admin screens. With Redis
// configured, progress also crosses instances; without it everything stays
// local.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Optional cross-instance fanout
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Progress client registered", nil)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastProgress delivers one ingestion step to every connected client.
// With Redis present the message goes through the channel and local delivery
// happens in the subscriber, so each instance delivers exactly once.
func (h *Hub) BroadcastProgress(progress entity.IngestProgress) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "ingest_progress",
		"data": progress,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal progress", map[string]interface{}{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), progressChannel, data).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
			h.deliverLocal(data)
		}
		return
	}

	h.deliverLocal(data)
}

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop the frame rather than block ingestion
		}
	}
}

func (h *Hub) subscribeToRedis() {
	sub := h.rdb.Subscribe(context.Background(), progressChannel)
	for msg := range sub.Channel() {
		h.deliverLocal([]byte(msg.Payload))
	}
}
