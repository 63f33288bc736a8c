package recovery

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blobkit/blobkit/errors"
	"github.com/blobkit/blobkit/lifecycle"
)

// Defaults for Config zero values.
const (
	DefaultMaxRetries  = 3
	DefaultSweepWindow = 5 * time.Minute
)

// Config tunes a Shell. Zero values take the package defaults.
type Config struct {
	// MaxRetries bounds Retry; the call after the budget is refused.
	MaxRetries int

	// SweepWindow is the stale age swept after a lifecycle-class
	// failure to clear related corruption.
	SweepWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.SweepWindow == 0 {
		c.SweepWindow = DefaultSweepWindow
	}
	return c
}

// Shell wraps one consumer's consumption boundary. Safe for concurrent
// use; each consumer scope gets its own shell.
type Shell struct {
	mu       sync.Mutex
	mgr      *lifecycle.Manager
	owner    string
	cfg      Config
	consume  func() error
	failure  error
	class    Class
	attempts int
}

// New wraps consume for the consumer identified by owner.
func New(mgr *lifecycle.Manager, owner string, consume func() error, cfg Config) *Shell {
	return &Shell{
		mgr:     mgr,
		owner:   owner,
		cfg:     cfg.withDefaults(),
		consume: consume,
	}
}

// Run executes the consumer once. A lifecycle-class failure triggers
// targeted cleanup (revoke the failing consumer's handles, sweep the
// short stale window) before the error is stored and returned. Generic
// failures are stored and surfaced as-is with no cleanup. Panics in the
// consumer are captured as consumption errors.
func (s *Shell) Run() error {
	err := s.safeConsume()
	if err == nil {
		s.mu.Lock()
		s.failure = nil
		s.class = ClassGeneric
		s.mu.Unlock()
		return nil
	}

	class := Classify(err)
	if class == ClassLifecycle {
		s.recoverLifecycle(err)
	}

	s.mu.Lock()
	s.failure = err
	s.class = class
	s.mu.Unlock()
	return err
}

func (s *Shell) safeConsume() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Consumption("", fmt.Sprintf("consumer panicked: %v", r), nil)
		}
	}()
	return s.consume()
}

func (s *Shell) recoverLifecycle(cause error) {
	Logger().Warn("lifecycle-class consumption failure, cleaning owner",
		zap.String("owner", s.owner),
		zap.Error(cause))

	s.mgr.RevokeByOwner(s.owner)
	swept := s.mgr.SweepStale(s.cfg.SweepWindow)
	if swept > 0 {
		Logger().Info("post-failure sweep", zap.Int("swept", swept))
	}
}

// Retry clears the failure state and re-runs the consumer, bounded by
// the retry budget; the call after the budget is refused with a
// retry_exhausted error and the consumer is not run.
func (s *Shell) Retry() error {
	s.mu.Lock()
	if s.attempts >= s.cfg.MaxRetries {
		s.mu.Unlock()
		return errors.RetryExhausted(s.owner, s.cfg.MaxRetries)
	}
	s.attempts++
	s.failure = nil
	s.mu.Unlock()

	return s.Run()
}

// Reset performs a full manager teardown and clears the failure state
// and retry budget. Unbounded; intended as the heavyweight affordance
// for resource-class failures.
func (s *Shell) Reset() {
	s.mgr.TeardownAll()

	s.mu.Lock()
	s.failure = nil
	s.class = ClassGeneric
	s.attempts = 0
	s.mu.Unlock()
}

// Failure returns the stored failure and its class, if any.
func (s *Shell) Failure() (error, Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure, s.class
}

// CanRetry reports whether the retry budget still allows a Retry call.
func (s *Shell) CanRetry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts < s.cfg.MaxRetries
}
