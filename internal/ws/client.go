package ws

import (
	"encoding/json"
	"log"
	"time"

	"match-service/internal/events"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4096
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// send is never closed; done signals WritePump to shut down. A
	// broadcast may race unregister, so closing send would let Emit
	// panic on a channel another goroutine just closed.
	send chan []byte
	done chan struct{}

	participantID string
	matchID       string

	// fixed-window inbound rate limit
	windowStart time.Time
	windowCount int
}

func NewClient(hub *Hub, conn *websocket.Conn, participantID string) *Client {
	c := &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		done:          make(chan struct{}),
		participantID: participantID,
	}
	hub.register(c)
	return c
}

func (c *Client) enqueue(frame []byte) {
	select {
	case <-c.done:
		// Unregistered; the socket is gone.
	case c.send <- frame:
	default:
		// Slow consumer; drop the frame rather than block a match.
	}
}

// inbound frame shapes, mirroring the outbound {type, payload} framing

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	ThemeID       string `json:"themeId"`
	ParticipantID string `json:"participantId"`
}

type answerPayload struct {
	MatchID        string `json:"matchId"`
	ParticipantID  string `json:"participantId"`
	SelectedIndex  int    `json:"selectedIndex"`
	ResponseTimeMs int64  `json:"responseTime_ms"`
}

type statePayload struct {
	MatchID       string `json:"matchId"`
	ParticipantID string `json:"participantId"`
}

// ReadPump decodes inbound frames and hands them to the dispatcher.
// Runs as one goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read: %v", err)
			}
			return
		}
		c.handleFrame(raw)
	}
}

// handleFrame decodes one inbound frame, applies the rate limit and
// routes it. Limited frames get a rate-limited notice, not an error.
func (c *Client) handleFrame(raw []byte) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.hub.Send(c, events.ErrorEvent{Message: "malformed frame", Code: "BAD_FRAME"})
		return
	}

	if c.limited() {
		c.hub.Send(c, events.RateLimited{
			EventType: f.Type,
			Message:   "too many events, back off",
		})
		return
	}

	c.dispatch(f)
}

func (c *Client) dispatch(f inboundFrame) {
	d := c.hub.dispatcher
	if d == nil {
		return
	}
	switch f.Type {
	case "join-matchmaking":
		var p joinPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			c.hub.Send(c, events.ErrorEvent{Message: "malformed join payload", Code: "BAD_PAYLOAD"})
			return
		}
		d.JoinMatchmaking(c, p.ThemeID, p.ParticipantID)
	case "submit-answer":
		var p answerPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			c.hub.Send(c, events.ErrorEvent{Message: "malformed answer payload", Code: "BAD_PAYLOAD"})
			return
		}
		d.SubmitAnswer(c, p.MatchID, p.ParticipantID, p.SelectedIndex, p.ResponseTimeMs)
	case "request-state":
		var p statePayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			c.hub.Send(c, events.ErrorEvent{Message: "malformed state payload", Code: "BAD_PAYLOAD"})
			return
		}
		d.RequestState(c, p.MatchID, p.ParticipantID)
	default:
		c.hub.Send(c, events.ErrorEvent{Message: "unknown event type", Code: "UNKNOWN_EVENT"})
	}
}

// limited applies a fixed-window counter per connection.
func (c *Client) limited() bool {
	now := time.Now()
	if now.Sub(c.windowStart) > c.hub.rateWindow {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++
	return c.windowCount > c.hub.rateEvents
}

// WritePump drains the send channel onto the socket with keepalives.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
