package lifecycle

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/errors"
	"github.com/blobkit/blobkit/registry"
)

// Defaults for Config zero values.
const (
	DefaultReleaseDelay   = 40 * time.Millisecond
	DefaultSweepInterval  = 30 * time.Minute
	DefaultStaleAge       = time.Hour
	DefaultSelfCheckDelay = 150 * time.Millisecond
)

// CleanupFunc is a one-shot teardown action registered per handle.
// It is invoked exactly once, immediately before the underlying resource
// is released, and never again. Errors and panics are logged, not
// propagated.
type CleanupFunc func() error

// Config holds the manager's numeric tuning knobs. Zero values take the
// package defaults; a negative duration disables the corresponding
// mechanism (immediate release, no background sweep, no self-check).
type Config struct {
	// ReleaseDelay is the buffer between deactivation and the
	// irreversible platform release, letting in-flight consumption of
	// the handle complete first.
	ReleaseDelay time.Duration

	// SweepInterval is the period of the background stale sweep.
	SweepInterval time.Duration

	// StaleAge is the maximum age the background sweep tolerates.
	StaleAge time.Duration

	// SelfCheckDelay schedules the advisory post-create check that a
	// fresh handle is still tracked. It only logs, never mutates.
	SelfCheckDelay time.Duration

	// Platform backs the native handle operations. Defaults to an
	// in-memory platform.
	Platform Platform
}

func (c Config) withDefaults() Config {
	if c.ReleaseDelay == 0 {
		c.ReleaseDelay = DefaultReleaseDelay
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.StaleAge == 0 {
		c.StaleAge = DefaultStaleAge
	}
	if c.SelfCheckDelay == 0 {
		c.SelfCheckDelay = DefaultSelfCheckDelay
	}
	if c.Platform == nil {
		c.Platform = NewMemoryPlatform()
	}
	return c
}

// Manager owns the registry, the cleanup callback table, and the
// background sweeper. Construct one per session and inject it into
// consumers; all registry mutation goes through its methods.
type Manager struct {
	reg      *registry.Registry
	platform Platform
	cfg      Config

	cleanupMu sync.Mutex
	cleanups  map[registry.Handle]CleanupFunc

	obsMu     sync.RWMutex
	observers []Observer

	sweepStop chan struct{}
	stopOnce  sync.Once

	now func() time.Time
}

// New creates a manager and starts its background sweeper.
// The sweeper runs until TeardownAll and is never restarted.
func New(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		reg:       registry.New(),
		platform:  cfg.Platform,
		cfg:       cfg,
		cleanups:  make(map[registry.Handle]CleanupFunc),
		sweepStop: make(chan struct{}),
		now:       time.Now,
	}
	if cfg.SweepInterval > 0 {
		go m.sweepLoop()
	}
	return m
}

// Create registers res for owner, binds it on the platform, and returns
// the new handle. Rejected input (nil or zero-size) fails synchronously
// with nothing registered.
func (m *Manager) Create(res blobkit.Resource, owner string) (registry.Handle, error) {
	h, err := m.reg.Register(res, owner)
	if err != nil {
		return "", err
	}

	e, _ := m.reg.Lookup(h)
	if err := m.platform.Bind(h, e.Bytes()); err != nil {
		m.reg.Deactivate(h)
		m.reg.Remove(h)
		return "", errors.New(errors.PhaseCreate, errors.KindInvalidResource).
			Handle(string(h)).
			Owner(owner).
			Detail("platform bind failed").
			Cause(err).
			Build()
	}

	if m.cfg.SelfCheckDelay > 0 {
		time.AfterFunc(m.cfg.SelfCheckDelay, func() { m.selfCheck(h) })
	}

	m.notify(Event{Type: EventCreated, Handle: h, Owner: owner, Size: e.Size})
	Logger().Debug("handle created",
		zap.String("handle", string(h)),
		zap.String("owner", owner),
		zap.Int64("bytes", e.Size))
	return h, nil
}

// selfCheck re-validates that a freshly created handle is still tracked.
// Advisory only: it never removes or mutates anything.
func (m *Manager) selfCheck(h registry.Handle) {
	if !m.IsActive(h) {
		Logger().Warn("handle no longer tracked shortly after create",
			zap.String("handle", string(h)))
	}
}

// Revoke invalidates a handle and schedules the release of its bytes.
// Idempotent: revoking an unknown, deactivated, or released handle logs
// and returns. It never returns an error; all revocation-path failures
// are absorbed so cleanup paths can call it speculatively.
func (m *Manager) Revoke(handle registry.Handle) {
	m.revoke(handle, m.cfg.ReleaseDelay)
}

func (m *Manager) revoke(handle registry.Handle, delay time.Duration) {
	m.runCleanup(handle)

	e, ok := m.reg.Deactivate(handle)
	if !ok {
		Logger().Debug("revoke of untracked handle ignored",
			zap.String("handle", string(handle)))
		return
	}

	m.notify(Event{Type: EventRevoked, Handle: handle, Owner: e.Owner, Size: e.Size})

	release := func() {
		m.platform.Release(handle)
		m.reg.Remove(handle)
		m.notify(Event{Type: EventReleased, Handle: handle, Owner: e.Owner, Size: e.Size})
	}
	if delay <= 0 {
		release()
		return
	}
	time.AfterFunc(delay, release)
}

// runCleanup pops and invokes the handle's cleanup callback, if any.
// Exactly one invocation per registration; failures are logged and
// swallowed so they never block the release they are attached to.
func (m *Manager) runCleanup(handle registry.Handle) {
	m.cleanupMu.Lock()
	fn, ok := m.cleanups[handle]
	if ok {
		delete(m.cleanups, handle)
	}
	m.cleanupMu.Unlock()
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			Logger().Error("cleanup callback panicked",
				zap.String("handle", string(handle)),
				zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		Logger().Error("cleanup callback failed",
			zap.String("handle", string(handle)),
			zap.Error(errors.CleanupFailed(string(handle), err)))
	}
}

// RevokeByOwner revokes every handle owned by owner. It operates over a
// snapshot, so the owner's set mutating mid-iteration is safe.
func (m *Manager) RevokeByOwner(owner string) {
	for _, h := range m.reg.OwnedHandles(owner) {
		m.Revoke(h)
	}
}

// RegisterCleanup attaches a one-shot teardown action to an active
// handle, overwriting any previous callback for that handle.
func (m *Manager) RegisterCleanup(handle registry.Handle, fn CleanupFunc) {
	if fn == nil || !m.IsActive(handle) {
		Logger().Debug("cleanup registration ignored",
			zap.String("handle", string(handle)))
		return
	}
	m.cleanupMu.Lock()
	m.cleanups[handle] = fn
	m.cleanupMu.Unlock()
}

// SweepStale revokes every active handle older than maxAge, regardless
// of access recency, and returns the number swept.
func (m *Manager) SweepStale(maxAge time.Duration) int {
	now := m.now()
	var stale []registry.Entry
	m.reg.Each(func(e registry.Entry) bool {
		if now.Sub(e.CreatedAt) > maxAge {
			stale = append(stale, e)
		}
		return true
	})

	for _, e := range stale {
		m.Revoke(e.Handle)
		m.notify(Event{Type: EventSwept, Handle: e.Handle, Owner: e.Owner, Size: e.Size})
	}
	if len(stale) > 0 {
		Logger().Info("swept stale handles",
			zap.Int("count", len(stale)),
			zap.Duration("max_age", maxAge))
	}
	return len(stale)
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.SweepStale(m.cfg.StaleAge)
		case <-m.sweepStop:
			return
		}
	}
}

// TeardownAll revokes every active handle immediately (no release
// delay), stops the background sweeper, and clears all tables. Intended
// as the terminal full-session cleanup; a fresh Create afterwards
// succeeds as if newly initialized.
func (m *Manager) TeardownAll() {
	m.stopOnce.Do(func() { close(m.sweepStop) })

	var handles []registry.Handle
	m.reg.Each(func(e registry.Entry) bool {
		handles = append(handles, e.Handle)
		return true
	})
	for _, h := range handles {
		m.revoke(h, 0)
	}

	m.reg.Clear()
	m.cleanupMu.Lock()
	m.cleanups = make(map[registry.Handle]CleanupFunc)
	m.cleanupMu.Unlock()

	Logger().Info("lifecycle teardown complete", zap.Int("revoked", len(handles)))
}

// IsActive reports whether handle is tracked and not yet revoked.
func (m *Manager) IsActive(handle registry.Handle) bool {
	e, ok := m.reg.Lookup(handle)
	return ok && e.Active
}

// Fetch resolves a handle for consumption, bumping its access counters.
// A revoked or unknown handle fails with a consumption error carrying
// the transient-fetch phrasing consumers surface.
func (m *Manager) Fetch(handle registry.Handle) ([]byte, error) {
	e, ok := m.reg.Lookup(handle)
	if !ok || !e.Active {
		return nil, errors.Consumption(string(handle),
			fmt.Sprintf("failed to fetch %s", handle), nil)
	}

	data, err := m.platform.Resolve(handle)
	if err != nil {
		return nil, errors.Consumption(string(handle),
			fmt.Sprintf("failed to fetch %s", handle), err)
	}

	m.reg.MarkAccessed(handle)
	return data, nil
}

// Lookup returns a snapshot of the registry entry for handle.
func (m *Manager) Lookup(handle registry.Handle) (registry.Entry, bool) {
	return m.reg.Lookup(handle)
}

// OwnedHandles returns owner's active handles in insertion order.
func (m *Manager) OwnedHandles(owner string) []registry.Handle {
	return m.reg.OwnedHandles(owner)
}

// Entries returns a snapshot of every active entry, oldest first.
func (m *Manager) Entries() []registry.Entry {
	var out []registry.Entry
	m.reg.Each(func(e registry.Entry) bool {
		out = append(out, e)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// GlobalStats aggregates all active entries.
func (m *Manager) GlobalStats() registry.Stats {
	return m.reg.Stats()
}

// StatsFor aggregates the active entries of one owner.
func (m *Manager) StatsFor(owner string) registry.GroupStats {
	return m.reg.StatsFor(owner)
}
