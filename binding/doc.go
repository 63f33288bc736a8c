// Package binding ties a handle's lifetime to a consumer's lifetime.
//
// A Binding is one slot: bind a resource, get a handle; rebind with a
// different resource and the previous handle is revoked before the new one
// is created, so each slot holds at most one live handle at any point.
// Unbind revokes on consumer teardown; Refresh force-recreates the handle
// from the same source bytes when a consumer suspects its handle went bad.
//
// A Set manages many slots keyed by caller-supplied item ids, with a
// reconciling RebindAll that revokes departed items, creates new ones, and
// leaves unchanged items alone.
//
// Change detection is by slice identity (same backing array), not deep
// equality; producers that re-derive equal bytes get a fresh handle.
// Bindings hold only handle strings, never registry entries.
package binding
