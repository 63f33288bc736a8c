package registry

import "github.com/google/uuid"

// SchemePrefix is the namespace every handle token starts with.
// The recovery package uses it to recognize lifecycle-class failures in
// consumer error messages.
const SchemePrefix = "blob:mem/"

// Handle is an opaque unique token representing a live binary resource.
// Once revoked, a handle is never reissued for a different resource.
type Handle string

// String returns the handle token.
func (h Handle) String() string {
	return string(h)
}

func newHandle() Handle {
	return Handle(SchemePrefix + uuid.NewString())
}
