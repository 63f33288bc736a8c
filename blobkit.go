package blobkit

// Resource is a binary payload handed to the lifecycle manager.
// Data must be non-empty; MIME is advisory and may be empty.
// Meta carries caller-defined extension fields and is stored verbatim
// on the registry entry.
type Resource struct {
	Data []byte
	MIME string
	Meta map[string]string
}

// Size returns the payload length in bytes.
func (r Resource) Size() int64 {
	return int64(len(r.Data))
}

// Empty reports whether the resource carries no bytes.
func (r Resource) Empty() bool {
	return len(r.Data) == 0
}
