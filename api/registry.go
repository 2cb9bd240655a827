package api

import (
	"sync"

	"github.com/google/uuid"
	"github.com/meikuraledutech/linkedit"
)

type entry struct {
	graphID string
	session linkedit.Session
}

// registry owns the open editor sessions. Each session is a value; an update
// runs one core operation on the stored value and writes the result back.
type registry struct {
	mu       sync.Mutex
	sessions map[string]entry
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]entry)}
}

func (r *registry) open(graphID string, s linkedit.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = entry{graphID: graphID, session: s}
	r.mu.Unlock()
	return id
}

func (r *registry) get(id string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	return e, ok
}

// update applies fn to the session under the registry lock.
func (r *registry) update(id string, fn func(linkedit.Session) linkedit.Session) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return entry{}, false
	}
	e.session = fn(e.session)
	r.sessions[id] = e
	return e, true
}

// take removes the session and hands it to the caller.
func (r *registry) take(id string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return e, ok
}

// restore puts back a session taken for a commit that failed, unless the id was reused meanwhile.
func (r *registry) restore(id string, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		r.sessions[id] = e
	}
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
