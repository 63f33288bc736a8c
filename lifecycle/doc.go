// Package lifecycle sequences the creation and revocation of blob handles.
//
// The Manager is the only mutator of the registry. Create registers the
// entry, binds the bytes on the Platform, and returns the handle. Revoke
// runs the handle's cleanup callback, flips the entry inactive
// synchronously, and schedules the irreversible platform release after a
// short delay so consumption already scheduled against the handle can
// finish. The delay is a race-avoidance buffer, not a barrier; a Platform
// with a real drain signal can release inside Release and run with a zero
// delay.
//
// Per handle the state machine is
//
//	Unregistered -> Active -> Deactivated -> Released
//
// and no transition skips a state. Revoking an unknown, deactivated, or
// released handle is a logged no-op. Double revocation from concurrent
// cleanup paths is an expected pattern, not a bug.
//
// A background sweeper, started once at New and stopped exactly once at
// TeardownAll, revokes handles older than the configured stale age
// regardless of access recency.
//
// The manager is intended to be a single session-wide instance, explicitly
// constructed and injected into consumers. Multiple bindings share it
// safely as long as each uses a distinct, stable owner id.
package lifecycle
