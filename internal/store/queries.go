package store

import (
	"fmt"

	"kafeku/internal/models"
)

// Derived read operations. All of them are served from the in-memory
// collections and therefore always reflect the latest committed mutation.

// GetUserByID returns the user with the given ID.
func (s *CatalogStore) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with ID %s not found", id)
}

// MenuItemsByCafeID returns the menu items belonging to one café.
func (s *CatalogStore) MenuItemsByCafeID(cafeID string) []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.MenuItem, 0)
	for _, item := range s.menuItems {
		if item.CafeID == cafeID {
			items = append(items, item)
		}
	}
	return items
}

// TotalMenuItemCount returns the number of menu items across all cafés.
func (s *CatalogStore) TotalMenuItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.menuItems)
}

// TotalUniqueCategoryCount returns the number of distinct category names
// across all cafés: the union of the per-café lists, not their sum.
func (s *CatalogStore) TotalUniqueCategoryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unique := make(map[string]struct{})
	for _, list := range s.categories {
		for _, name := range list {
			unique[name] = struct{}{}
		}
	}
	return len(unique)
}
