package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"match-service/internal/events"
)

// Hub owns every live socket and the room membership per match. It is
// the Broadcast Gateway: the orchestrator emits typed events through
// Emit and never sees a connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	dispatcher Dispatcher

	rateEvents int
	rateWindow time.Duration
}

// Dispatcher handles the three inbound participant events. The ws
// layer decodes frames and forwards them; all game rules live behind
// this interface.
type Dispatcher interface {
	JoinMatchmaking(c *Client, themeID, participantID string)
	SubmitAnswer(c *Client, matchID, participantID string, selectedIndex int, responseTimeMs int64)
	RequestState(c *Client, matchID, participantID string)
	Disconnected(c *Client)
}

func NewHub(rateEvents int, rateWindow time.Duration) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		rateEvents: rateEvents,
		rateWindow: rateWindow,
	}
}

// SetDispatcher wires the inbound side after construction; the
// dispatcher itself needs the hub as its Broadcaster.
func (h *Hub) SetDispatcher(d Dispatcher) { h.dispatcher = d }

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for matchID, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, matchID)
			}
		}
	}
	// Signal the writer instead of closing send: a concurrent Emit
	// holds no lock while enqueueing and must never hit a closed channel.
	close(c.done)
	h.mu.Unlock()

	if h.dispatcher != nil {
		h.dispatcher.Disconnected(c)
	}
}

// Subscribe puts a client into a match room. A client follows one
// match at a time; joining a new room leaves the previous one.
func (h *Hub) Subscribe(c *Client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev := c.matchID; prev != "" && prev != matchID {
		if members, ok := h.rooms[prev]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, prev)
			}
		}
	}
	c.matchID = matchID
	if h.rooms[matchID] == nil {
		h.rooms[matchID] = make(map[*Client]bool)
	}
	h.rooms[matchID][c] = true
}

// Emit implements events.Broadcaster: one typed dispatch entry point,
// fanned out to every socket in the match room.
func (h *Hub) Emit(matchID string, e events.Event) {
	frame, err := marshalFrame(e)
	if err != nil {
		log.Printf("marshalling %s event: %v", e.Type(), err)
		return
	}

	h.mu.RLock()
	members := h.rooms[matchID]
	targets := make([]*Client, 0, len(members))
	for c := range members {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

// Send delivers an event to a single client, used for direct replies
// (created/joined acknowledgments, state sync, errors).
func (h *Hub) Send(c *Client, e events.Event) {
	frame, err := marshalFrame(e)
	if err != nil {
		log.Printf("marshalling %s event: %v", e.Type(), err)
		return
	}
	c.enqueue(frame)
}

func marshalFrame(e events.Event) ([]byte, error) {
	return json.Marshal(frame{Type: string(e.Type()), Payload: e})
}

type frame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
