package storage

import "context"

// BlobStore holds inline-encoded image payloads keyed by the owning
// entity's ID (café or menu item). Entries exist only for entities whose
// image is inline-encoded; external reference URLs stay in the metadata
// snapshot.
type BlobStore interface {
	Put(ctx context.Context, id, payload string) error
	// Get returns the payload for id, with ok=false when absent.
	Get(ctx context.Context, id string) (payload string, ok bool, err error)
	// Delete removes the payload for id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
