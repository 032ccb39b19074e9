package store

// EventKind names a committed mutation.
type EventKind string

const (
	EventCafeRegistered  EventKind = "cafe.registered"
	EventCafeProvisioned EventKind = "cafe.provisioned"
	EventCafeUpdated     EventKind = "cafe.updated"
	EventCafeDeleted     EventKind = "cafe.deleted"

	EventMenuItemAdded   EventKind = "menuitem.added"
	EventMenuItemUpdated EventKind = "menuitem.updated"
	EventMenuItemDeleted EventKind = "menuitem.deleted"

	EventCategoryAdded   EventKind = "category.added"
	EventCategoryRenamed EventKind = "category.renamed"
	EventCategoryDeleted EventKind = "category.deleted"

	EventLoggedIn           EventKind = "session.login"
	EventLoggedOut          EventKind = "session.logout"
	EventAdminPasswordReset EventKind = "user.password_reset"
)

// Event describes one committed mutation. Events are emitted after the
// mutation and its snapshot writes have completed and the store lock has
// been released, so listeners may call back into the store.
type Event struct {
	Kind     EventKind `json:"kind"`
	EntityID string    `json:"entityId,omitempty"`
	CafeID   string    `json:"cafeId,omitempty"`
}

// Subscribe registers a listener invoked synchronously for every committed
// mutation, in registration order.
func (s *CatalogStore) Subscribe(fn func(Event)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *CatalogStore) notify(events ...Event) {
	s.listenerMu.RLock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.RUnlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
