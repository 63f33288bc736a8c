package lifecycle

import (
	"fmt"
	"sync"

	"github.com/blobkit/blobkit/registry"
)

// Platform performs the native handle operations behind the registry:
// binding bytes to a handle, resolving a handle for consumption, and the
// irreversible release of the underlying storage. The in-memory default
// mirrors the browser createObjectURL/revokeObjectURL pair; alternative
// implementations back handles with mmap regions, device buffers, or a
// renderer bridge.
type Platform interface {
	// Bind attaches data to a freshly minted handle.
	Bind(handle registry.Handle, data []byte) error

	// Resolve returns the bytes behind a bound handle.
	Resolve(handle registry.Handle) ([]byte, error)

	// Release frees the underlying storage. Idempotent: releasing an
	// unbound handle is a no-op.
	Release(handle registry.Handle)
}

// MemoryPlatform is the in-memory Platform used by default.
// Safe for concurrent use.
type MemoryPlatform struct {
	mu    sync.RWMutex
	bound map[registry.Handle][]byte
}

// NewMemoryPlatform creates an empty in-memory platform.
func NewMemoryPlatform() *MemoryPlatform {
	return &MemoryPlatform{
		bound: make(map[registry.Handle][]byte),
	}
}

// Bind attaches data to handle.
func (p *MemoryPlatform) Bind(handle registry.Handle, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.bound[handle]; exists {
		return fmt.Errorf("handle %s already bound", handle)
	}
	p.bound[handle] = data
	return nil
}

// Resolve returns the bytes behind handle. A released handle fails the
// same way the browser does: the resource is simply not found.
func (p *MemoryPlatform) Resolve(handle registry.Handle) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, ok := p.bound[handle]
	if !ok {
		return nil, fmt.Errorf("%s: file not found", handle)
	}
	return data, nil
}

// Release frees the bytes behind handle. Idempotent.
func (p *MemoryPlatform) Release(handle registry.Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.bound, handle)
}
