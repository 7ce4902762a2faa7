package ws

import (
	"context"

	"match-service/internal/apperr"
	"match-service/internal/events"
	"match-service/internal/service"
)

// GameDispatcher adapts inbound socket events onto the matchmaker and
// the orchestrator, and maps core errors to outbound frames.
type GameDispatcher struct {
	hub        *Hub
	matchmaker *service.MatchmakerService
	matches    *service.MatchService
}

func NewGameDispatcher(hub *Hub, matchmaker *service.MatchmakerService, matches *service.MatchService) *GameDispatcher {
	d := &GameDispatcher{hub: hub, matchmaker: matchmaker, matches: matches}
	hub.SetDispatcher(d)
	return d
}

func (d *GameDispatcher) JoinMatchmaking(c *Client, themeID, participantID string) {
	match, role, err := d.matchmaker.JoinOrCreate(context.Background(), themeID, participantID)
	if err != nil {
		d.sendError(c, err)
		return
	}
	c.participantID = participantID
	d.hub.Subscribe(c, match.ID)

	if role == service.RoleCreated {
		d.hub.Send(c, events.Created{MatchID: match.ID, Match: match})
		return
	}
	d.hub.Send(c, events.Joined{MatchID: match.ID, Match: match})
}

func (d *GameDispatcher) SubmitAnswer(c *Client, matchID, participantID string, selectedIndex int, responseTimeMs int64) {
	err := d.matches.SubmitAnswer(context.Background(), matchID, participantID, selectedIndex, responseTimeMs)
	if err != nil {
		// Conflicts (duplicate answer, closed question) are declined
		// quietly; the frame is the acknowledgment, nothing changed.
		d.sendError(c, err)
	}
}

func (d *GameDispatcher) RequestState(c *Client, matchID, participantID string) {
	snapshot, err := d.matches.SyncState(context.Background(), matchID, participantID)
	if err != nil {
		d.sendError(c, err)
		return
	}
	d.hub.Subscribe(c, matchID)
	d.hub.Send(c, *snapshot)
}

func (d *GameDispatcher) Disconnected(c *Client) {
	if c.matchID == "" || c.participantID == "" {
		return
	}
	d.matches.DisconnectParticipant(c.matchID, c.participantID)
}

func (d *GameDispatcher) sendError(c *Client, err error) {
	msg := err.Error()
	if apperr.IsKind(err, apperr.KindInternal) {
		// Internal faults are logged server-side; clients get a generic failure.
		msg = "internal error"
	}
	d.hub.Send(c, events.ErrorEvent{
		Message: msg,
		Code:    apperr.CodeOf(err),
	})
}
