package store

import (
	"fmt"

	"kafeku/internal/models"

	"github.com/google/uuid"
)

// MenuItemInput carries the fields for creating a menu item. The owning café
// is fixed at creation and cannot be changed afterwards.
type MenuItemInput struct {
	CafeID   string  `json:"cafeId" validate:"required"`
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	ImageURL string  `json:"imageUrl"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"required"`
}

// MenuItemUpdate is a partial edit: nil fields keep their prior values.
// Category is accepted as-is; it is deliberately not checked against the
// café's category list.
type MenuItemUpdate struct {
	Name     *string  `json:"name"`
	ImageURL *string  `json:"imageUrl"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// MenuItems returns a copy of all menu items across all cafés.
func (s *CatalogStore) MenuItems() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.MenuItem, len(s.menuItems))
	copy(items, s.menuItems)
	return items
}

// GetMenuItemByID returns the menu item with the given ID.
func (s *CatalogStore) GetMenuItemByID(id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.menuItems {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("menu item with ID %s not found", id)
}

// AddMenuItem appends a new menu item to the owning café's menu. A missing
// image defaults to a generated placeholder.
func (s *CatalogStore) AddMenuItem(input MenuItemInput) (*models.MenuItem, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}

	cafeExists := false
	for _, c := range s.cafes {
		if c.ID == input.CafeID {
			cafeExists = true
			break
		}
	}
	if !cafeExists {
		s.mu.Unlock()
		return nil, fmt.Errorf("cafe with ID %s not found", input.CafeID)
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = placeholderImage(input.Name)
	}
	item := models.MenuItem{
		ID:       uuid.New().String(),
		CafeID:   input.CafeID,
		Name:     input.Name,
		ImageURL: imageURL,
		Price:    input.Price,
		Category: input.Category,
	}
	s.menuItems = append(s.menuItems, item)

	if models.IsInlineImage(imageURL) {
		s.putBlob(item.ID, imageURL)
	}
	s.persistMenuItems()
	s.mu.Unlock()

	s.notify(Event{Kind: EventMenuItemAdded, EntityID: item.ID, CafeID: item.CafeID})
	return &item, nil
}

// EditMenuItem merges the provided fields onto the item's record.
func (s *CatalogStore) EditMenuItem(id string, update MenuItemUpdate) (*models.MenuItem, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}

	idx := -1
	for i := range s.menuItems {
		if s.menuItems[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("menu item with ID %s not found", id)
	}

	item := &s.menuItems[idx]
	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Price != nil {
		if *update.Price < 0 {
			s.mu.Unlock()
			return nil, fmt.Errorf("price must not be negative")
		}
		item.Price = *update.Price
	}
	if update.Category != nil {
		item.Category = *update.Category
	}
	if update.ImageURL != nil {
		s.replaceBlob(item.ID, item.ImageURL, *update.ImageURL)
		item.ImageURL = *update.ImageURL
	}
	edited := *item
	s.persistMenuItems()
	s.mu.Unlock()

	s.notify(Event{Kind: EventMenuItemUpdated, EntityID: id, CafeID: edited.CafeID})
	return &edited, nil
}

// DeleteMenuItem removes a menu item and its blob payload, if any. There is
// no further cascade.
func (s *CatalogStore) DeleteMenuItem(id string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	idx := -1
	for i := range s.menuItems {
		if s.menuItems[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("menu item with ID %s not found", id)
	}

	cafeID := s.menuItems[idx].CafeID
	s.menuItems = append(s.menuItems[:idx], s.menuItems[idx+1:]...)
	s.deleteBlobs(id)
	s.persistMenuItems()
	s.mu.Unlock()

	s.notify(Event{Kind: EventMenuItemDeleted, EntityID: id, CafeID: cafeID})
	return nil
}
