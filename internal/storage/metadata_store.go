package storage

import "errors"

// Snapshot keys used by the catalog store. Each key holds one JSON
// document that is replaced wholesale on every save.
const (
	KeyCafes      = "caffeinator_cafes"
	KeyMenuItems  = "caffeinator_menuItems"
	KeyCategories = "caffeinator_menuCategories"
	KeyUsers      = "caffeinator_users"
	KeySession    = "caffeinator_session"
)

// ErrQuotaExceeded is returned by MetadataStore.Save when a snapshot is
// larger than the store's configured quota.
var ErrQuotaExceeded = errors.New("storage: snapshot exceeds quota")

// MetadataStore is the small, synchronous key/value text store holding
// entity metadata snapshots. Values must stay well under the quota, which
// is why inline-encoded images are stripped before serialization and kept
// in a BlobStore instead.
type MetadataStore interface {
	// Load returns the value for key, with ok=false when the key is absent.
	Load(key string) (value string, ok bool, err error)
	// Save replaces the value for key.
	Save(key, value string) error
}
