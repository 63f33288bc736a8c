package binding

import (
	"sync"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/lifecycle"
	"github.com/blobkit/blobkit/registry"
)

// Binding is a single-slot adapter: at most one live handle, tied to one
// consumer scope. Safe for concurrent use.
type Binding struct {
	mu    sync.Mutex
	mgr   *lifecycle.Manager
	owner string

	src    blobkit.Resource
	handle registry.Handle
	bound  bool
}

// New creates an empty binding for owner. Owner must be distinct and
// stable across the consumer's lifetime.
func New(mgr *lifecycle.Manager, owner string) *Binding {
	return &Binding{mgr: mgr, owner: owner}
}

// Bind exposes a handle for res. If res is identical (by slice identity)
// to the currently bound resource, the existing handle is returned. On a
// change the previous handle is revoked before the new one is created,
// bounding the slot at one live handle. A nil resource unbinds the slot.
func (b *Binding) Bind(res blobkit.Resource) (registry.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound && sameSlice(b.src.Data, res.Data) {
		return b.handle, nil
	}

	b.release()

	if res.Data == nil {
		return "", nil
	}
	return b.create(res)
}

// Unbind revokes the current handle and clears the exposed value.
// Safe to call repeatedly.
func (b *Binding) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
}

// Refresh revokes and recreates the handle from the same source
// resource, for recovering from a suspected bad handle without waiting
// for a dependency change.
func (b *Binding) Refresh() (registry.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.bound {
		return "", nil
	}
	src := b.src
	b.release()
	return b.create(src)
}

// Handle returns the exposed handle, if any.
func (b *Binding) Handle() (registry.Handle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle, b.bound
}

func (b *Binding) create(res blobkit.Resource) (registry.Handle, error) {
	h, err := b.mgr.Create(res, b.owner)
	if err != nil {
		b.src = blobkit.Resource{}
		return "", err
	}
	b.src = res
	b.handle = h
	b.bound = true
	return h, nil
}

func (b *Binding) release() {
	if b.bound {
		b.mgr.Revoke(b.handle)
	}
	b.handle = ""
	b.bound = false
	b.src = blobkit.Resource{}
}

// sameSlice reports slice identity: same backing array and length.
// Both nil counts as identical; re-derived equal bytes do not.
func sameSlice(a, b []byte) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return false
	}
	return &a[0] == &b[0]
}
