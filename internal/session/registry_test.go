package session

import (
	"testing"

	"match-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return New(uuid.NewString(), uuid.NewString(), uuid.NewString(), []models.Question{
		{ID: "q1", Text: "?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
	})
}

func TestRegistry_PutGetDelete(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given an empty registry
	req.Zero(registry.Len())

	// When a session is registered
	sess := newTestSession()
	registry.Put(sess)

	// Then it is retrievable by match id
	got, ok := registry.Get(sess.MatchID)
	req.True(ok)
	req.Same(sess, got)
	req.Equal(1, registry.Len())

	// And removed eagerly on delete
	registry.Delete(sess.MatchID)
	_, ok = registry.Get(sess.MatchID)
	req.False(ok)
	req.Zero(registry.Len())
}

func TestRegistry_GetUnknownMatch(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, ok := registry.Get(uuid.NewString())
	req.False(ok)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	s1 := newTestSession()
	s2 := newTestSession()
	registry.Put(s1)
	registry.Put(s2)
	req.Equal(2, registry.Len())

	registry.Delete(s1.MatchID)

	_, ok := registry.Get(s2.MatchID)
	req.True(ok)
}
