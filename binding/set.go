package binding

import (
	"sync"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/lifecycle"
	"github.com/blobkit/blobkit/registry"
)

// Item is one entry of a multi-resource binding.
type Item struct {
	ID       string
	Resource blobkit.Resource
}

type slot struct {
	src    blobkit.Resource
	handle registry.Handle
}

// Set manages a mapping from caller-supplied item ids to handles, all
// under one owner. Safe for concurrent use.
type Set struct {
	mu    sync.Mutex
	mgr   *lifecycle.Manager
	owner string
	slots map[string]slot
}

// NewSet creates an empty multi-resource binding for owner.
func NewSet(mgr *lifecycle.Manager, owner string) *Set {
	return &Set{
		mgr:   mgr,
		owner: owner,
		slots: make(map[string]slot),
	}
}

// AddOne binds item, revoking any previous handle under the same id
// first. An identical resource (slice identity) keeps its handle.
func (s *Set) AddOne(item Item) (registry.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bind(item)
}

// RemoveOne revokes and forgets the handle for id. Unknown ids are a
// no-op.
func (s *Set) RemoveOne(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.slots[id]; ok {
		s.mgr.Revoke(sl.handle)
		delete(s.slots, id)
	}
}

// RebindAll reconciles the set against items: handles for departed ids
// are revoked, new ids are created, and unchanged items are left alone.
// The first creation error aborts the pass and is returned; already
// reconciled items keep their new state.
func (s *Set) RebindAll(items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := make(map[string]bool, len(items))
	for _, it := range items {
		keep[it.ID] = true
	}
	for id, sl := range s.slots {
		if !keep[id] {
			s.mgr.Revoke(sl.handle)
			delete(s.slots, id)
		}
	}

	for _, it := range items {
		if _, err := s.bind(it); err != nil {
			return err
		}
	}
	return nil
}

// Handle returns the handle bound under id, if any.
func (s *Set) Handle(id string) (registry.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[id]
	return sl.handle, ok
}

// Handles returns a copy of the id to handle mapping.
func (s *Set) Handles() map[string]registry.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]registry.Handle, len(s.slots))
	for id, sl := range s.slots {
		out[id] = sl.handle
	}
	return out
}

// Len returns the number of bound slots.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// UnbindAll revokes every handle and empties the set.
func (s *Set) UnbindAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sl := range s.slots {
		s.mgr.Revoke(sl.handle)
		delete(s.slots, id)
	}
}

func (s *Set) bind(item Item) (registry.Handle, error) {
	if sl, ok := s.slots[item.ID]; ok {
		if sameSlice(sl.src.Data, item.Resource.Data) {
			return sl.handle, nil
		}
		s.mgr.Revoke(sl.handle)
		delete(s.slots, item.ID)
	}

	h, err := s.mgr.Create(item.Resource, s.owner)
	if err != nil {
		return "", err
	}
	s.slots[item.ID] = slot{src: item.Resource, handle: h}
	return h, nil
}
