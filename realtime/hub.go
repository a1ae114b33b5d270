package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is the room directory: it maps room names to the connected sessions
// currently joined to them. Membership is session-scoped, in-memory and
// vanishes on disconnect. Delivery is best-effort: an empty room or a full
// send queue silently drops the event.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*Client]struct{}
	clientRooms map[*Client]map[string]struct{}
	logger      *zap.Logger
}

// NewHub creates an empty room directory.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		clientRooms: make(map[*Client]map[string]struct{}),
		logger:      logger,
	}
}

// Register makes the hub aware of a connected session.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientRooms[c]; !ok {
		h.clientRooms[c] = make(map[string]struct{})
	}
}

// Unregister drops the session from every room it joined.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.clientRooms[c] {
		h.removeLocked(c, room)
	}
	delete(h.clientRooms, c)
}

// Join adds the session to a room. Joining twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	if h.clientRooms[c] == nil {
		h.clientRooms[c] = make(map[string]struct{})
	}
	h.clientRooms[c][room] = struct{}{}
}

// Leave removes the session from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, room)
	delete(h.clientRooms[c], room)
}

func (h *Hub) removeLocked(c *Client, room string) {
	if set, ok := h.rooms[room]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers an event to every session in the room except those
// listed in except.
func (h *Hub) Broadcast(room, event string, payload interface{}, except ...*Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[room]
	if len(members) == 0 {
		return
	}

	skip := make(map[*Client]struct{}, len(except))
	for _, c := range except {
		skip[c] = struct{}{}
	}

	for c := range members {
		if _, ok := skip[c]; ok {
			continue
		}
		if !c.Queue(event, payload) {
			h.logger.Warn("dropping event, client send queue full",
				zap.String("event", event),
				zap.String("room", room),
				zap.String("user", c.UserID))
		}
	}
}

// Emit delivers an event to every session in the room. It satisfies the
// notification layer's Broadcaster capability.
func (h *Hub) Emit(room, event string, payload interface{}) {
	h.Broadcast(room, event, payload)
}

// RoomSize reports the current membership of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
