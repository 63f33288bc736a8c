// Package blobkit provides lifecycle management for URL-like handles over
// in-memory binary blobs.
//
// A producer hands the lifecycle manager a binary resource and receives an
// opaque handle string. Consumers render the handle; when they are torn down,
// the handle is revoked and the underlying bytes are released shortly after.
// A background sweep revokes handles that outlive a maximum age, and a
// recovery shell classifies consumption failures and drives targeted cleanup.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	blobkit/             Root package with the shared Resource type
//	├── registry/        Handle table, owner index, and stats aggregation
//	├── lifecycle/       Create/revoke sequencing, sweep, platform release
//	├── binding/         Per-consumer bindings tying handles to a scope
//	├── recovery/        Consumption-failure classification and retry
//	├── errors/          Structured error types
//	└── cmd/blobctl/     Interactive inspector
//
// # Quick Start
//
// Create a manager, hand it bytes, expose the handle:
//
//	mgr := lifecycle.New(lifecycle.Config{})
//	defer mgr.TeardownAll()
//
//	h, err := mgr.Create(blobkit.Resource{Data: audio, MIME: "audio/mpeg"}, "player-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := mgr.Fetch(h) // consumer side
//	mgr.Revoke(h)             // consumer torn down
//
// Bindings scope a handle to a consumer's lifetime:
//
//	b := binding.New(mgr, "player-1")
//	h, _ := b.Bind(blobkit.Resource{Data: clip, MIME: "audio/wav"})
//	defer b.Unbind()
//
// # Handle Lifecycle
//
// Every handle moves through exactly one path:
//
//	Unregistered -> Active -> Deactivated -> Released
//
// Revoke flips the entry inactive synchronously and schedules the
// irreversible platform release after a short delay, so handles already
// scheduled for consumption can finish. Revoking an unknown or released
// handle is a logged no-op, never an error.
package blobkit
