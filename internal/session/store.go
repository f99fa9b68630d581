// Package session holds chat thread state. Threads live in process memory
// only: they are created on demand and vanish on restart, there is no end
// operation and no persistence guarantee.
package session

import (
	"sync"

	"github.com/docdexio/docdex/internal/model"
	"github.com/docdexio/docdex/internal/pkg/ids"
)

// Session binds one chat thread to a document identifier and carries the
// transcript. The identifier is fixed for the thread's lifetime; the
// transcript is append-only in conversational order.
type Session struct {
	mu      sync.Mutex
	assetID string
	turns   []model.ChatTurn
}

func (s *Session) AssetID() string {
	return s.assetID
}

// Append adds one turn under the per-session lock. Concurrent appends keep
// the order in which the lock was acquired; none are lost.
func (s *Session) Append(turn model.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// History returns a copy of the transcript in insertion order.
func (s *Session) History() []model.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Store maps thread tokens to sessions.
type Store interface {
	Create(assetID string) string
	Get(token string) (*Session, bool)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (s *memoryStore) Create(assetID string) string {
	token := ids.NewThreadID()
	s.mu.Lock()
	s.sessions[token] = &Session{assetID: assetID}
	s.mu.Unlock()
	return token
}

func (s *memoryStore) Get(token string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	return sess, ok
}
