package server

import (
	"sync"

	"rook-server/internal/rook"
)

type SessionInfo struct {
	Token      string
	GameCode   string
	Seat       int
	PlayerName string
}

// SessionManager maps bearer tokens to seats. Tokens are issued on create
// and join; a reconnecting socket presents its token to re-bind to its seat.
type SessionManager struct {
	sessions map[string]SessionInfo
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]SessionInfo),
	}
}

func (sm *SessionManager) StoreSession(info SessionInfo) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[info.Token] = info
}

func (sm *SessionManager) GetSession(token string) (SessionInfo, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[token]
	if !exists {
		return SessionInfo{}, rook.NewError(rook.CodeValidation, "invalid session token")
	}
	return session, nil
}

func (sm *SessionManager) RemoveSession(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, token)
}

// SessionsForGame returns every session bound to a game code.
func (sm *SessionManager) SessionsForGame(gameCode string) []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var sessions []SessionInfo
	for _, session := range sm.sessions {
		if session.GameCode == gameCode {
			sessions = append(sessions, session)
		}
	}
	return sessions
}
