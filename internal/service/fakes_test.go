package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"match-service/internal/events"
	"match-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeMatchStore struct {
	mu        sync.Mutex
	matches   map[string]*models.Match
	failClaim bool
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[string]*models.Match)}
}

func (f *fakeMatchStore) Create(_ context.Context, match *models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *match
	f.matches[match.ID] = &cp
	return nil
}

func (f *fakeMatchStore) FindByID(_ context.Context, id string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatchStore) Update(_ context.Context, id string, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for k, v := range update {
		switch k {
		case "status":
			m.Status = v.(models.MatchStatus)
		case "participant2":
			m.Participant2 = v.(string)
		case "score1":
			m.Score1 = v.(int)
		case "score2":
			m.Score2 = v.(int)
		case "current_question_index":
			m.CurrentQuestionIndex = v.(int)
		case "winner":
			m.Winner = v.(string)
		default:
			return fmt.Errorf("fake store: unexpected update key %q", k)
		}
	}
	return nil
}

func (f *fakeMatchStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, id)
	return nil
}

func (f *fakeMatchStore) FindWaitingByTheme(_ context.Context, themeID, excludeParticipant string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.ThemeID == themeID && m.Status == models.StatusWaiting &&
			m.Participant1 != excludeParticipant && m.Participant2 == "" {
			cp := *m
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeMatchStore) ClaimSecondSlot(_ context.Context, matchID, participantID string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClaim {
		return nil, mongo.ErrNoDocuments
	}
	m, ok := f.matches[matchID]
	if !ok || m.Status != models.StatusWaiting || m.Participant2 != "" {
		return nil, mongo.ErrNoDocuments
	}
	m.Participant2 = participantID
	cp := *m
	return &cp, nil
}

func (f *fakeMatchStore) MarkCompleted(_ context.Context, id, winner string, score1, score2 int, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Status = models.StatusCompleted
	m.Winner = winner
	m.Score1 = score1
	m.Score2 = score2
	m.CompletedAt = completedAt
	return nil
}

type fakeAnswerStore struct {
	mu         sync.Mutex
	answers    []models.Answer
	failCreate bool
}

func (f *fakeAnswerStore) Create(_ context.Context, answer *models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("storage down")
	}
	f.answers = append(f.answers, *answer)
	return nil
}

func (f *fakeAnswerStore) DeleteByMatch(_ context.Context, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.answers[:0]
	for _, a := range f.answers {
		if a.MatchID != matchID {
			kept = append(kept, a)
		}
	}
	f.answers = kept
	return nil
}

func (f *fakeAnswerStore) count(matchID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.answers {
		if a.MatchID == matchID {
			n++
		}
	}
	return n
}

type fakeThemeStore struct {
	themes map[string]*models.Theme
}

func (f *fakeThemeStore) FindByID(_ context.Context, id string) (*models.Theme, error) {
	return f.themes[id], nil
}

type fakeSelector struct {
	questions []models.Question
	err       error
}

func (f *fakeSelector) SelectForMatch(_ context.Context, _ string, count int) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.questions) < count {
		return nil, errors.New("pool too small")
	}
	return f.questions[:count], nil
}

type captureBroadcaster struct {
	mu     sync.Mutex
	events map[string][]events.Event
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{events: make(map[string][]events.Event)}
}

func (b *captureBroadcaster) Emit(matchID string, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[matchID] = append(b.events[matchID], e)
}

func (b *captureBroadcaster) ofType(matchID string, t events.EventType) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events[matchID] {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func (b *captureBroadcaster) last(matchID string, t events.EventType) events.Event {
	all := b.ofType(matchID, t)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

type fakePublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *fakePublisher) Publish(eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}
