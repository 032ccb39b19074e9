package store

import (
	"fmt"
	"sort"
)

// MenuCategoriesForCafe returns a copy of the café's category list, empty if
// the café has none registered.
func (s *CatalogStore) MenuCategoriesForCafe(cafeID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.categories[cafeID]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// AddMenuCategory inserts a category name into the café's list. Names are
// unique within a café (case-sensitive exact match); a duplicate fails with
// ErrDuplicateCategory and leaves the list untouched.
func (s *CatalogStore) AddMenuCategory(cafeID, name string) error {
	if name == "" {
		return fmt.Errorf("category name must not be empty")
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	list := s.categories[cafeID]
	for _, existing := range list {
		if existing == name {
			s.mu.Unlock()
			return ErrDuplicateCategory
		}
	}
	list = append(list, name)
	sort.Strings(list)
	s.categories[cafeID] = list
	s.persistCategories()
	s.mu.Unlock()

	s.notify(Event{Kind: EventCategoryAdded, EntityID: name, CafeID: cafeID})
	return nil
}

// EditMenuCategory renames a category in the café's list and rewrites the
// category field of every menu item of that café currently set to oldName.
// Renaming a name to itself is a successful no-op.
func (s *CatalogStore) EditMenuCategory(cafeID, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("category name must not be empty")
	}
	if oldName == newName {
		return nil
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	list := s.categories[cafeID]
	oldIdx := -1
	for i, existing := range list {
		if existing == newName {
			s.mu.Unlock()
			return ErrDuplicateCategory
		}
		if existing == oldName {
			oldIdx = i
		}
	}
	if oldIdx < 0 {
		s.mu.Unlock()
		return ErrCategoryNotFound
	}

	list[oldIdx] = newName
	sort.Strings(list)
	s.categories[cafeID] = list

	for i := range s.menuItems {
		if s.menuItems[i].CafeID == cafeID && s.menuItems[i].Category == oldName {
			s.menuItems[i].Category = newName
		}
	}

	s.persistCategories()
	s.persistMenuItems()
	s.mu.Unlock()

	s.notify(Event{Kind: EventCategoryRenamed, EntityID: newName, CafeID: cafeID})
	return nil
}

// DeleteMenuCategory removes a name from the café's list only. Menu items
// referencing the name keep it as-is: orphaned category strings are the
// documented behavior, not a bug.
func (s *CatalogStore) DeleteMenuCategory(cafeID, name string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	list := s.categories[cafeID]
	idx := -1
	for i, existing := range list {
		if existing == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrCategoryNotFound
	}

	s.categories[cafeID] = append(list[:idx], list[idx+1:]...)
	s.persistCategories()
	s.mu.Unlock()

	s.notify(Event{Kind: EventCategoryDeleted, EntityID: name, CafeID: cafeID})
	return nil
}
