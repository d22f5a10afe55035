package room

import (
	"sync"
	"time"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
)

// Registry owns the process-wide room table. Sessions are created on the
// first successful create request for an id and destroyed when the caller
// reports empty membership.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Session
	maxMembers int
	now        func() time.Time
}

// NewRegistry creates an empty registry. maxMembers <= 0 means unlimited;
// nil now means real time (tests inject a fake).
func NewRegistry(maxMembers int, now func() time.Time) *Registry {
	return &Registry{
		rooms:      make(map[string]*Session),
		maxMembers: maxMembers,
		now:        now,
	}
}

// Create makes a new empty room for id.
func (r *Registry) Create(id, password string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return nil, errs.ErrRoomExists
	}
	s := NewSession(id, password, r.maxMembers, r.now)
	r.rooms[id] = s
	return s, nil
}

// Get looks up a room by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rooms[id]
	if !ok {
		return nil, errs.ErrRoomNotFound
	}
	return s, nil
}

// Destroy removes the room entry. Unknown ids are ignored.
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
