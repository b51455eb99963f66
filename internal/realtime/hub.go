package realtime

import (
	"sync"

	"go.uber.org/zap"
)

const (
	EventSuggestionAdded = "suggestion-added"
	EventRecipeAdded     = "recipe-added"
)

// Event is intentionally thin: recipients re-fetch the board or recipe
// list from the registry, so channel ordering never has to agree with
// data consistency.
type Event struct {
	Type   string `json:"type"`
	RoomID uint64 `json:"roomId"`
}

// Client is one connected member. Events are delivered through the
// buffered send channel; the transport's write pump drains it.
type Client struct {
	UserID uint64

	send chan Event

	mu    sync.Mutex
	rooms map[uint64]struct{}
}

func NewClient(userID uint64) *Client {
	return &Client{
		UserID: userID,
		send:   make(chan Event, 16),
		rooms:  make(map[uint64]struct{}),
	}
}

// Events exposes the delivery channel for the write pump.
func (c *Client) Events() <-chan Event { return c.send }

// Hub fans room-scoped events out to the room's connected clients.
// Join/leave/publish run concurrently from independent connections, so
// the topic table is mutex-guarded.
type Hub struct {
	Log *zap.Logger

	mu    sync.RWMutex
	rooms map[uint64]map[*Client]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{Log: log, rooms: make(map[uint64]map[*Client]struct{})}
}

func (h *Hub) Join(roomID uint64, c *Client) {
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	h.mu.Unlock()

	c.mu.Lock()
	c.rooms[roomID] = struct{}{}
	c.mu.Unlock()
}

func (h *Hub) Leave(roomID uint64, c *Client) {
	h.mu.Lock()
	if set := h.rooms[roomID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

// Drop removes the client from every room it joined. Called on
// disconnect.
func (h *Hub) Drop(c *Client) {
	c.mu.Lock()
	joined := make([]uint64, 0, len(c.rooms))
	for id := range c.rooms {
		joined = append(joined, id)
	}
	c.rooms = make(map[uint64]struct{})
	c.mu.Unlock()

	h.mu.Lock()
	for _, id := range joined {
		if set := h.rooms[id]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(h.rooms, id)
			}
		}
	}
	h.mu.Unlock()
}

// Publish delivers ev to every client in the room. Delivery is
// at-most-once: a client whose buffer is full misses the event and is
// expected to re-fetch state when it next syncs.
func (h *Hub) Publish(roomID uint64, ev Event) {
	h.PublishExcept(roomID, ev, nil)
}

// PublishExcept is Publish minus one client, used when relaying a
// client-originated event back to the rest of the room.
func (h *Hub) PublishExcept(roomID uint64, ev Event, skip *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		if c == skip {
			continue
		}
		select {
		case c.send <- ev:
		default:
			if h.Log != nil {
				h.Log.Warn("dropping event for slow client",
					zap.Uint64("user_id", c.UserID),
					zap.Uint64("room_id", roomID),
					zap.String("event", ev.Type))
			}
		}
	}
}
