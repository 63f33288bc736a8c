package recovery

import (
	"strings"

	"github.com/blobkit/blobkit/errors"
	"github.com/blobkit/blobkit/registry"
)

// Class is the recovery category of a consumption failure.
type Class string

const (
	// ClassLifecycle marks failures attributable to a revoked or invalid
	// handle rather than an unrelated application bug.
	ClassLifecycle Class = "lifecycle"

	// ClassGeneric marks everything else; surfaced as-is, no cleanup.
	ClassGeneric Class = "generic"
)

// transientFetchPhrases are the recognized substrings consumers surface
// when the underlying resource is unreachable. Matched case-insensitively.
var transientFetchPhrases = []string{
	"err_file_not_found",
	"file not found",
	"failed to fetch",
}

// Classify categorizes a consumption failure. Structured blobkit
// consumption errors are lifecycle-class by construction; otherwise the
// message is scanned for the handle namespace and the known
// transient-fetch phrases.
func Classify(err error) Class {
	if err == nil {
		return ClassGeneric
	}
	if errors.IsKind(err, errors.KindConsumption) {
		return ClassLifecycle
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, registry.SchemePrefix) {
		return ClassLifecycle
	}
	for _, phrase := range transientFetchPhrases {
		if strings.Contains(msg, phrase) {
			return ClassLifecycle
		}
	}
	return ClassGeneric
}
