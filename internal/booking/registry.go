package booking

import "sync"

// Registry is the process-wide map of live booking sessions.  Reads are
// frequent (every wizard request resolves its session) so it uses an
// RWMutex; mutation happens only on session create and teardown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Controller)}
}

// Put registers a session under its id, replacing any previous session
// with the same id.
func (r *Registry) Put(c *Controller) {
	r.mu.Lock()
	r.sessions[c.SessionID()] = c
	r.mu.Unlock()
}

// Get resolves a session by id.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.RLock()
	c, ok := r.sessions[id]
	r.mu.RUnlock()
	return c, ok
}

// Delete tears a session down.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
