package lifecycle

import "github.com/blobkit/blobkit/registry"

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRevoked
	EventReleased
	EventSwept
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRevoked:
		return "revoked"
	case EventReleased:
		return "released"
	case EventSwept:
		return "swept"
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event struct {
	Type   EventType
	Handle registry.Handle
	Owner  string
	Size   int64
}

// Observer receives notifications about handle lifecycle events.
// Callbacks run synchronously on the mutating goroutine and must not
// call back into the manager.
type Observer interface {
	OnLifecycleEvent(Event)
}

// Subscribe adds an observer for lifecycle events.
func (m *Manager) Subscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

// Unsubscribe removes an observer.
func (m *Manager) Unsubscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for i, obs := range m.observers {
		if obs == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

func (m *Manager) notify(e Event) {
	m.obsMu.RLock()
	defer m.obsMu.RUnlock()
	for _, o := range m.observers {
		o.OnLifecycleEvent(e)
	}
}
