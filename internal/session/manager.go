package session

import (
	"context"
	"sync"

	"github.com/getapp-hq/getapp/internal/store"
)

// Manager tracks one live Session per authenticated user for the HTTP
// layer: login/signup create an entry, logout drops it.
type Manager struct {
	store *store.Store
	ui    UIHooks

	mu       sync.RWMutex
	sessions map[string]*Session // keyed by user id
}

// NewManager builds a manager over the given store. ui is attached to every
// session it creates; nil means no presentation layer.
func NewManager(st *store.Store, ui UIHooks) *Manager {
	return &Manager{store: st, ui: ui, sessions: make(map[string]*Session)}
}

// Login authenticates and registers the resulting session. A repeat login
// for the same user replaces the previous session.
func (m *Manager) Login(ctx context.Context, email, secret string) (*Session, error) {
	s := New(m.store, m.ui)
	if err := s.Login(ctx, email, secret); err != nil {
		return nil, err
	}
	m.put(s)
	return s, nil
}

// Signup registers a new account and its session.
func (m *Manager) Signup(ctx context.Context, name, email, secret string, role store.Role) (*Session, error) {
	s := New(m.store, m.ui)
	if err := s.Signup(ctx, name, email, secret, role); err != nil {
		return nil, err
	}
	m.put(s)
	return s, nil
}

// Get returns the live session for a user id.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Logout ends the session for a user id, if one exists.
func (m *Manager) Logout(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Logout()
	}
}

func (m *Manager) put(s *Session) {
	u := s.CurrentUser()
	if u == nil {
		return
	}
	m.mu.Lock()
	m.sessions[u.ID] = s
	m.mu.Unlock()
}
