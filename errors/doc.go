// Package errors provides structured error types for blobkit.
//
// Errors carry a Phase (where in the handle lifecycle the failure occurred)
// and a Kind (what category of failure it is). Two errors match under
// errors.Is when Phase and Kind are equal, so callers can test for a
// category without string comparison:
//
//	if errors.Is(err, blErrors.EmptyResource("")) {
//	    // rejected at creation, nothing was registered
//	}
//
// The package distinguishes surfaced failures from absorbed ones.
// Creation-time failures (empty_resource, invalid_resource) propagate to
// the caller. Revocation-path failures (unknown_handle, cleanup_callback)
// are internal: the lifecycle manager logs them and continues, and they
// never escape the API boundary. Consumption failures are raised by
// consumers and classified by the recovery package.
package errors
