package storage

import (
	"sync"

	"certinator/internal/domain"
)

// Session is what one chat has uploaded and configured so far.
type Session struct {
	Assets     domain.Assets
	Names      []string
	Options    domain.Options
	Processing bool
}

// SessionStore keeps per-chat sessions in memory.
type SessionStore struct {
	assets   domain.Assets
	options  domain.Options
	sessions map[int64]*Session
	mu       sync.RWMutex
}

// NewSessionStore seeds new sessions with the given assets and options.
func NewSessionStore(assets domain.Assets, options domain.Options) *SessionStore {
	return &SessionStore{
		assets:   assets,
		options:  options,
		sessions: make(map[int64]*Session),
	}
}

func (s *SessionStore) get(chatID int64) *Session {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{
			Assets:  s.assets,
			Options: s.options,
		}
		s.sessions[chatID] = sess
	}
	return sess
}

// Snapshot returns a copy of the chat's session.
func (s *SessionStore) Snapshot(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := *s.get(chatID)
	sess.Names = append([]string(nil), sess.Names...)
	return sess
}

// Update applies fn to the chat's session under the store lock.
func (s *SessionStore) Update(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.get(chatID))
}

func (s *SessionStore) TryStart(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(chatID)
	if sess.Processing {
		return false
	}
	sess.Processing = true
	return true
}

func (s *SessionStore) Finish(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.Processing = false
	}
}

func (s *SessionStore) IsProcessing(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Processing
	}
	return false
}

// Reset drops everything the chat uploaded.
func (s *SessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
