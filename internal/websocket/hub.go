package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"sales-assist-bff/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "desk_events"
	stateKeyPrefix = "desk_view:"
)

// Hub fans desk events out to the views attached to each desk. With Redis
// configured, events also reach views connected to other instances, and the
// latest state frame of every desk is kept so those views can attach at all.
//
// A view that cannot keep up is disconnected rather than silently skipped; it
// reconnects and starts again from a fresh snapshot.
type Hub struct {
	// Attached views: desk id -> clients (a desk may be open in several tabs)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb        *redis.Client
	instanceId string
	stateTTL   time.Duration

	logger logger.ILogger
}

type clusterPayload struct {
	Origin       string          `json:"origin"`
	TargetDeskId string          `json:"target_desk_id"`
	Message      json.RawMessage `json:"message"`
}

// NewHub creates a hub. rdb may be nil; stateTTL bounds how long a desk's last
// state frame outlives its last event.
func NewHub(rdb *redis.Client, stateTTL time.Duration, log logger.ILogger) *Hub {
	if stateTTL <= 0 {
		stateTTL = 2 * time.Hour
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		stateTTL:   stateTTL,
		logger:     log,
	}
}

// Run serves registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DeskId] = append(h.clients[client.DeskId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "View attached", map[string]interface{}{"desk_id": client.DeskId})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for deskId, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, deskId)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.DeskId]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.DeskId] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.DeskId]) == 0 {
		delete(h.clients, client.DeskId)
		h.logger.Info("Hub", "Last view detached", map[string]interface{}{"desk_id": client.DeskId})
	}
}

// Attached reports how many local views are attached to deskId.
func (h *Hub) Attached(deskId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[deskId])
}

func (h *Hub) deliverLocal(deskId string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[deskId] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "View send buffer full, disconnecting view", map[string]interface{}{"desk_id": deskId})
			go h.detach(client)
		}
	}
}

// Send delivers a serialized event to every view of deskId.
func (h *Hub) Send(deskId string, data []byte) {
	h.deliverLocal(deskId, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{
			Origin:       h.instanceId,
			TargetDeskId: deskId,
			Message:      data,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"desk_id": deskId, "error": err.Error()})
		}
	}
}

// Remember stores frame as the state a view of deskId starts from when it attaches
// through another instance. Without Redis it does nothing.
func (h *Hub) Remember(deskId string, frame []byte) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.Set(context.Background(), stateKeyPrefix+deskId, frame, h.stateTTL).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to store desk state", map[string]interface{}{"desk_id": deskId, "error": err.Error()})
	}
}

// Forget drops the stored state of a closed desk.
func (h *Hub) Forget(deskId string) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.Del(context.Background(), stateKeyPrefix+deskId).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to drop desk state", map[string]interface{}{"desk_id": deskId, "error": err.Error()})
	}
}

// LastState returns the frame stored by Remember on any instance.
func (h *Hub) LastState(ctx context.Context, deskId string) ([]byte, bool) {
	if h.rdb == nil {
		return nil, false
	}
	frame, err := h.rdb.Get(ctx, stateKeyPrefix+deskId).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("Hub", "Failed to load desk state", map[string]interface{}{"desk_id": deskId, "error": err.Error()})
		}
		return nil, false
	}
	return frame, true
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceId {
				continue
			}
			h.deliverLocal(payload.TargetDeskId, payload.Message)
		}
	}
}
