package server

import (
	"sync"

	"github.com/coder/websocket"
)

type playerConnection struct {
	conn  *websocket.Conn
	token string
}

// ConnectionManager tracks live sockets and which session token each one
// authenticated as. One token maps to at most one socket; reconnecting from
// a new socket displaces the old mapping.
type ConnectionManager struct {
	connections map[string]*playerConnection // connectionID -> socket
	tokens      map[string]string            // token -> connectionID
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*playerConnection),
		tokens:      make(map[string]string),
	}
}

func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[id] = &playerConnection{conn: conn}
}

// BindToken associates a connection with a session token and returns the
// previous connection holding that token, if any.
func (cm *ConnectionManager) BindToken(connectionID, token string) (displaced string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if old, ok := cm.tokens[token]; ok && old != connectionID {
		displaced = old
	}
	if pc, ok := cm.connections[connectionID]; ok {
		pc.token = token
	}
	cm.tokens[token] = connectionID
	return displaced
}

func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if pc, ok := cm.connections[id]; ok && pc.token != "" {
		if cm.tokens[pc.token] == id {
			delete(cm.tokens, pc.token)
		}
	}
	delete(cm.connections, id)
}

func (cm *ConnectionManager) TokenFor(connectionID string) string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if pc, ok := cm.connections[connectionID]; ok {
		return pc.token
	}
	return ""
}

func (cm *ConnectionManager) ConnectionByToken(token string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	id, ok := cm.tokens[token]
	if !ok {
		return nil
	}
	if pc, ok := cm.connections[id]; ok {
		return pc.conn
	}
	return nil
}

func (cm *ConnectionManager) Connection(connectionID string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if pc, ok := cm.connections[connectionID]; ok {
		return pc.conn
	}
	return nil
}
