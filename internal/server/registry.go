package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/parla/internal/tutor"
)

// Registry holds live sessions by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*tutor.Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*tutor.Session)}
}

// Add registers sess under its ID.
func (r *Registry) Add(sess *tutor.Session) {
	id := uuid.MustParse(sess.ID)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = sess
}

// Get looks up a session. Malformed IDs are simply not found.
func (r *Registry) Get(idStr string) (*tutor.Session, bool) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Remove drops a session. It reports whether one existed.
func (r *Registry) Remove(idStr string) bool {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
