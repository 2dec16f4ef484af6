// Package registry tracks live connections by their ephemeral ConnID.
package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/scythe504/impostor-backend/internal"
)

type Registry struct {
	conns map[internal.ConnID]internal.Connection
	mu    sync.RWMutex
}

func New() *Registry {
	return &Registry{
		conns: make(map[internal.ConnID]internal.Connection),
	}
}

// NewID mints a process-unique connection id.
func (r *Registry) NewID() internal.ConnID {
	return internal.ConnID(uuid.NewString())
}

func (r *Registry) Add(conn internal.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = conn
}

// Remove invalidates the id; later lookups fail.
func (r *Registry) Remove(id internal.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

func (r *Registry) Get(id internal.ConnID) (internal.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// IsLive reports whether conn is the connection registered under its id.
func (r *Registry) IsLive(conn internal.Connection) bool {
	registered, ok := r.Get(conn.ID())
	return ok && registered == conn
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
