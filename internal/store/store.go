package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"kafeku/internal/models"
	"kafeku/internal/storage"

	"github.com/go-playground/validator/v10"
)

// State tracks the initialization lifecycle of the catalog store.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

var (
	// ErrNotReady is returned by every operation invoked before Init completes.
	ErrNotReady = errors.New("catalog store is not initialized")
	// ErrEmailTaken signals a registration with an already-registered admin email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrDuplicateCategory signals an insert or rename that would duplicate a
	// category name within one café's list.
	ErrDuplicateCategory = errors.New("category already exists for this cafe")
	// ErrCategoryNotFound signals a rename or delete of an absent category name.
	ErrCategoryNotFound = errors.New("category not found for this cafe")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CatalogStore is the single stateful component of the application: it holds
// every domain entity in memory, persists them to a MetadataStore/BlobStore
// pair on each mutation, and exposes the only mutation and query surface the
// rest of the application uses.
//
// All operations are synchronous with respect to in-memory state. Persistence
// is a reactive side effect: metadata snapshots are replaced wholesale inside
// the mutation, image payloads are written to the blob store in the
// background. Persistence failures are logged and never surfaced to callers;
// the in-memory mutation stands regardless.
type CatalogStore struct {
	mu    sync.RWMutex
	meta  storage.MetadataStore
	blobs storage.BlobStore

	cafes      []models.Cafe
	menuItems  []models.MenuItem
	categories map[string][]string
	users      []models.User

	currentUser *models.User
	state       State
	bootstrap   models.User

	validate *validator.Validate

	listenerMu sync.RWMutex
	listeners  []func(Event)

	// blobWork tracks in-flight background blob writes so tests and
	// shutdown can drain them.
	blobWork sync.WaitGroup
}

// DefaultBootstrapAdmin returns the built-in superadmin account. The store
// re-inserts it into the user collection on every hydration if missing.
func DefaultBootstrapAdmin() models.User {
	return models.User{
		ID:       "superadmin-001",
		Email:    "superadmin@kafeku.id",
		Password: "superadmin123",
		Role:     models.RoleSuperAdmin,
	}
}

// NewCatalogStore creates a store over the given persistence pair. The store
// is unusable until Init has run.
func NewCatalogStore(meta storage.MetadataStore, blobs storage.BlobStore, bootstrap models.User) *CatalogStore {
	bootstrap.Role = models.RoleSuperAdmin
	bootstrap.CafeID = ""
	return &CatalogStore{
		meta:       meta,
		blobs:      blobs,
		categories: make(map[string][]string),
		bootstrap:  bootstrap,
		validate:   validator.New(),
	}
}

// Init hydrates the in-memory collections from the metadata store, overlays
// blob-store image payloads onto cafés and menu items, heals the bootstrap
// superadmin, and validates the persisted session. The store is Ready when
// Init returns. Calling Init on a store that is already Ready is a no-op.
func (s *CatalogStore) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading

	loadSnapshot(s.meta, storage.KeyCafes, &s.cafes)
	loadSnapshot(s.meta, storage.KeyMenuItems, &s.menuItems)
	loadSnapshot(s.meta, storage.KeyCategories, &s.categories)
	loadSnapshot(s.meta, storage.KeyUsers, &s.users)
	if s.categories == nil {
		s.categories = make(map[string][]string)
	}
	s.ensureBootstrapAdmin()
	s.restoreSession()

	ids := make([]string, 0, len(s.cafes)+len(s.menuItems))
	for _, c := range s.cafes {
		ids = append(ids, c.ID)
	}
	for _, m := range s.menuItems {
		ids = append(ids, m.ID)
	}
	s.mu.Unlock()

	payloads := s.fetchBlobPayloads(ctx, ids)

	s.mu.Lock()
	for i := range s.cafes {
		if p, ok := payloads[s.cafes[i].ID]; ok {
			s.cafes[i].ImageURL = p
		}
	}
	for i := range s.menuItems {
		if p, ok := payloads[s.menuItems[i].ID]; ok {
			s.menuItems[i].ImageURL = p
		}
	}
	s.state = StateReady
	s.mu.Unlock()
	return nil
}

// Ready reports whether Init has completed.
func (s *CatalogStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// Close drains background blob writes. The store has no other teardown.
func (s *CatalogStore) Close() {
	s.blobWork.Wait()
}

// fetchBlobPayloads looks up each id in the blob store concurrently and
// returns the payloads that exist. Lookup failures are logged per entity and
// degrade to a missing image.
func (s *CatalogStore) fetchBlobPayloads(ctx context.Context, ids []string) map[string]string {
	payloads := make(map[string]string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			payload, ok, err := s.blobs.Get(ctx, id)
			if err != nil {
				log.Printf("Failed to load image payload for %s: %v", id, err)
				return
			}
			if ok {
				mu.Lock()
				payloads[id] = payload
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return payloads
}

// ensureBootstrapAdmin re-inserts the bootstrap superadmin if hydration did
// not produce it. Called with the write lock held.
func (s *CatalogStore) ensureBootstrapAdmin() {
	for _, u := range s.users {
		if u.ID == s.bootstrap.ID {
			return
		}
	}
	s.users = append([]models.User{s.bootstrap}, s.users...)
	s.persistUsers()
}

// restoreSession validates the persisted session against the hydrated user
// collection. A missing snapshot or a session referencing a user that no
// longer exists means logged out. Called with the write lock held.
func (s *CatalogStore) restoreSession() {
	var stored *models.User
	loadSnapshot(s.meta, storage.KeySession, &stored)
	if stored == nil {
		s.currentUser = nil
		return
	}
	for _, u := range s.users {
		if u.ID == stored.ID {
			user := u
			s.currentUser = &user
			return
		}
	}
	s.currentUser = nil
}

// loadSnapshot reads and decodes one snapshot. An absent key leaves out at
// its zero value; a read or decode failure is logged and likewise falls back
// to the zero value rather than aborting hydration.
func loadSnapshot[T any](meta storage.MetadataStore, key string, out *T) {
	value, ok, err := meta.Load(key)
	if err != nil {
		log.Printf("Failed to load snapshot %s: %v", key, err)
		return
	}
	if !ok {
		return
	}
	var decoded T
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		log.Printf("Failed to decode snapshot %s, falling back to empty: %v", key, err)
		return
	}
	*out = decoded
}

// saveSnapshot serializes and writes one snapshot. Failures are logged and
// swallowed: the in-memory mutation stays in effect and the snapshot simply
// keeps its previous durable value.
func (s *CatalogStore) saveSnapshot(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to serialize snapshot %s: %v", key, err)
		return
	}
	if err := s.meta.Save(key, string(b)); err != nil {
		log.Printf("Failed to persist snapshot %s: %v", key, err)
	}
}

// persistCafes writes the café snapshot with inline-encoded images stripped;
// the payloads live in the blob store. Called with the write lock held.
func (s *CatalogStore) persistCafes() {
	stripped := make([]models.Cafe, len(s.cafes))
	copy(stripped, s.cafes)
	for i := range stripped {
		if models.IsInlineImage(stripped[i].ImageURL) {
			stripped[i].ImageURL = ""
		}
	}
	s.saveSnapshot(storage.KeyCafes, stripped)
}

// persistMenuItems mirrors persistCafes for the menu item snapshot.
func (s *CatalogStore) persistMenuItems() {
	stripped := make([]models.MenuItem, len(s.menuItems))
	copy(stripped, s.menuItems)
	for i := range stripped {
		if models.IsInlineImage(stripped[i].ImageURL) {
			stripped[i].ImageURL = ""
		}
	}
	s.saveSnapshot(storage.KeyMenuItems, stripped)
}

func (s *CatalogStore) persistCategories() {
	s.saveSnapshot(storage.KeyCategories, s.categories)
}

func (s *CatalogStore) persistUsers() {
	s.saveSnapshot(storage.KeyUsers, s.users)
}

func (s *CatalogStore) persistSession() {
	s.saveSnapshot(storage.KeySession, s.currentUser)
}

// putBlob writes an inline image payload in the background. An earlier
// payload under the same id is replaced.
func (s *CatalogStore) putBlob(id, payload string) {
	s.blobWork.Add(1)
	go func() {
		defer s.blobWork.Done()
		if err := s.blobs.Put(context.Background(), id, payload); err != nil {
			log.Printf("Failed to store image payload for %s: %v", id, err)
		}
	}()
}

// deleteBlobs removes payloads in the background.
func (s *CatalogStore) deleteBlobs(ids ...string) {
	s.blobWork.Add(1)
	go func() {
		defer s.blobWork.Done()
		for _, id := range ids {
			if err := s.blobs.Delete(context.Background(), id); err != nil {
				log.Printf("Failed to delete image payload for %s: %v", id, err)
			}
		}
	}()
}

// replaceBlob atomically (per entity) removes a prior inline payload and
// writes the new one, in the background.
func (s *CatalogStore) replaceBlob(id, oldImage, newImage string) {
	oldInline := models.IsInlineImage(oldImage)
	newInline := models.IsInlineImage(newImage)
	if !oldInline && !newInline {
		return
	}
	s.blobWork.Add(1)
	go func() {
		defer s.blobWork.Done()
		if oldInline && !newInline {
			if err := s.blobs.Delete(context.Background(), id); err != nil {
				log.Printf("Failed to delete image payload for %s: %v", id, err)
			}
		}
		if newInline {
			if err := s.blobs.Put(context.Background(), id, newImage); err != nil {
				log.Printf("Failed to store image payload for %s: %v", id, err)
			}
		}
	}()
}
