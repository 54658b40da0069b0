package state

import "context"

// Slot is a named key-value slot for serialized store state. Payloads are
// opaque JSON blobs; there is no versioning or migration of old payloads.
type Slot interface {
	// Load returns the payload saved under name, or (nil, nil) if the slot
	// has never been written.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the payload under name.
	Save(ctx context.Context, name string, data []byte) error
}
