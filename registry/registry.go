package registry

import (
	"sync"
	"time"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/errors"
)

// Entry describes one tracked resource. Callers outside this package
// receive value copies; the registry exclusively owns the stored state.
type Entry struct {
	Handle         Handle
	Owner          string
	Size           int64
	MIME           string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    uint64
	Active         bool
	Meta           map[string]string

	// retained is a defensive copy of the payload; src keeps the
	// producer's original slice reachable until release so the producer
	// dropping its reference cannot strand an in-flight consumer.
	retained []byte
	src      []byte
}

// Bytes returns the retained payload copy.
func (e Entry) Bytes() []byte {
	return e.retained
}

// Registry is the in-memory handle table with an owner index.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]*Entry
	owners  map[string][]Handle
	now     func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[Handle]*Entry),
		owners:  make(map[string][]Handle),
		now:     time.Now,
	}
}

// Register stores a resource for owner and returns a fresh handle.
// Nil input fails with invalid_resource, zero-size input with
// empty_resource; nothing is registered on failure.
func (r *Registry) Register(res blobkit.Resource, owner string) (Handle, error) {
	if res.Data == nil {
		return "", errors.InvalidResource(owner, "nil resource data")
	}
	if res.Empty() {
		return "", errors.EmptyResource(owner)
	}

	retained := make([]byte, len(res.Data))
	copy(retained, res.Data)

	r.mu.Lock()
	defer r.mu.Unlock()

	h := newHandle()
	now := r.now()
	r.entries[h] = &Entry{
		Handle:         h,
		Owner:          owner,
		Size:           res.Size(),
		MIME:           res.MIME,
		CreatedAt:      now,
		LastAccessedAt: now,
		Active:         true,
		Meta:           res.Meta,
		retained:       retained,
		src:            res.Data,
	}
	r.owners[owner] = append(r.owners[owner], h)

	return h, nil
}

// Lookup returns a snapshot of the entry for handle. Does not mutate state.
func (r *Registry) Lookup(handle Handle) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[handle]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// MarkAccessed bumps the access counter and timestamp for an active
// handle. No-op if the handle is unknown or inactive.
func (r *Registry) MarkAccessed(handle Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[handle]
	if !ok || !e.Active {
		return
	}
	e.AccessCount++
	if now := r.now(); now.After(e.LastAccessedAt) {
		e.LastAccessedAt = now
	}
}

// Deactivate flips the entry inactive and removes the handle from its
// owner's set, pruning the set if it empties. Idempotent: repeated calls
// on an already-inactive or unknown handle return (Entry{}, false).
// The returned snapshot lets the caller finish releasing the resource.
func (r *Registry) Deactivate(handle Handle) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[handle]
	if !ok || !e.Active {
		return Entry{}, false
	}
	e.Active = false

	owned := r.owners[e.Owner]
	for i, h := range owned {
		if h == handle {
			r.owners[e.Owner] = append(owned[:i], owned[i+1:]...)
			break
		}
	}
	if len(r.owners[e.Owner]) == 0 {
		delete(r.owners, e.Owner)
	}

	return *e, true
}

// Remove deletes an inactive entry from the table. Active entries are
// left alone: Deactivate must happen first, no transition skips a state.
func (r *Registry) Remove(handle Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[handle]; ok && !e.Active {
		delete(r.entries, handle)
	}
}

// OwnedHandles returns owner's active handles in insertion order.
func (r *Registry) OwnedHandles(owner string) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owners[owner]
	out := make([]Handle, len(owned))
	copy(out, owned)
	return out
}

// Each calls fn with a snapshot of every active entry until fn returns
// false. Iteration order is unspecified.
func (r *Registry) Each(fn func(Entry) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Active {
			if !fn(*e) {
				break
			}
		}
	}
}

// Len returns the number of active entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries {
		if e.Active {
			count++
		}
	}
	return count
}

// Clear drops every entry and the whole owner index, active or not.
// Used by full-session teardown after callers released the platform side.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[Handle]*Entry)
	r.owners = make(map[string][]Handle)
}
