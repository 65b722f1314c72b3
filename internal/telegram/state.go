package telegram

import "sync"

const (
	StateIdle         = ""
	StateAwaitingFile = "awaiting_file"
)

// SessionKey scopes the deadline-creation flow to one admin in one chat.
type SessionKey struct {
	ChatID int64
	UserID int64
}

type SessionState struct {
	State         string
	DeadlineTitle string
}

type StateManager struct {
	mu       sync.RWMutex
	sessions map[SessionKey]*SessionState
}

func NewStateManager() *StateManager {
	return &StateManager{
		sessions: make(map[SessionKey]*SessionState),
	}
}

func (m *StateManager) Get(key SessionKey) *SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if !ok {
		return &SessionState{}
	}
	cp := *s
	return &cp
}

func (m *StateManager) Set(key SessionKey, state *SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = state
}

func (m *StateManager) Clear(key SessionKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}
