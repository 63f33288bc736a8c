// Package registry implements the handle table backing the blobkit
// lifecycle manager.
//
// The registry maps opaque handle strings to entries describing a live
// binary resource: owning consumer, byte size, MIME type, timestamps, and
// access counters. An owner index keeps the handles of each consumer in
// insertion order for bulk revocation.
//
// Entries move through a strict lifecycle. Register creates an active
// entry; Deactivate flips it inactive exactly once and detaches it from
// the owner index; Remove deletes it after the platform-level release has
// completed. Handles are never reissued: each Register call mints a fresh
// token.
//
// The registry is a bookkeeping structure only. It never performs the
// platform-level bind or release; that sequencing belongs to the
// lifecycle package, which is the sole mutator of registry state.
package registry
