// Package recovery wraps a consumption boundary and drives cleanup when
// rendering a handle fails.
//
// Failures are classified as lifecycle-class when they carry the blobkit
// consumption kind or when their message references the handle namespace
// or the known transient-fetch phrases ("file not found",
// "ERR_FILE_NOT_FOUND", "failed to fetch"). A lifecycle-class failure
// triggers targeted cleanup: every handle owned by the failing consumer
// is revoked and entries older than a short window are swept, clearing
// related corruption. Generic failures surface as-is with no cleanup.
//
// Retry re-runs the consumer within a bounded budget; once the budget is
// exhausted further retries are refused. Reset tears down the whole
// manager and clears the failure state, unbounded.
package recovery
