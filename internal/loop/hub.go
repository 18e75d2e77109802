package loop

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// HubEventType identifies a hub-to-session event.
type HubEventType int

const (
	EventServerShutdown HubEventType = iota
	EventNewBest
)

// HubEvent is sent from the hub to a session.
type HubEvent struct {
	Type     HubEventType
	Username string // EventNewBest
	Score    int    // EventNewBest
}

// Handle is a session's registration with a hub.
type Handle struct {
	ID       int
	Username string
	Events   chan HubEvent
}

// Hub tracks the sessions of a multi-player host. Every session plays its
// own round; the hub only shares the session count, the best score since
// start, and shutdown notices.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[int]*Handle
	nextID    int
	bestName  string
	bestScore int
	log       *log.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions: make(map[int]*Handle),
		nextID:   1,
		log:      logger,
	}
}

// Register adds a session and returns its handle.
func (h *Hub) Register(username string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &Handle{
		ID:       h.nextID,
		Username: username,
		Events:   make(chan HubEvent, 16),
	}
	h.nextID++
	h.sessions[handle.ID] = handle
	h.log.Info("session registered", "id", handle.ID, "user", username, "sessions", len(h.sessions))
	return handle
}

// Unregister removes a session and closes its event channel.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(h.sessions, id)
	close(handle.Events)
	h.log.Info("session unregistered", "id", id, "user", handle.Username, "sessions", len(h.sessions))
}

// Sessions returns the number of registered sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Best returns the best finished-round score reported since start.
func (h *Hub) Best() (username string, score int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bestName, h.bestScore
}

// ReportScore records a finished round. A new best is announced to every
// session.
func (h *Hub) ReportScore(id, score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.sessions[id]
	if !ok || score <= h.bestScore {
		return
	}
	h.bestName, h.bestScore = handle.Username, score
	h.log.Info("new best score", "user", handle.Username, "score", score)
	h.broadcastLocked(HubEvent{Type: EventNewBest, Username: handle.Username, Score: score})
}

// Shutdown notifies every session and waits until all of them have
// unregistered or the timeout expires.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	h.broadcastLocked(HubEvent{Type: EventServerShutdown})
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			h.log.Warn("shutdown timed out", "sessions", h.Sessions())
			return
		case <-ticker.C:
			if h.Sessions() == 0 {
				return
			}
		}
	}
}

// broadcastLocked sends e without blocking; slow sessions miss it.
func (h *Hub) broadcastLocked(e HubEvent) {
	for _, handle := range h.sessions {
		select {
		case handle.Events <- e:
		default:
		}
	}
}
