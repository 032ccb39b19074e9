package store

import (
	"fmt"
	"net/url"
	"sort"

	"kafeku/internal/models"

	"github.com/google/uuid"
)

// CafeInput carries the café fields for registration and provisioning.
type CafeInput struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Address     string `json:"address" validate:"required,min=5,max=100"`
	ContactInfo string `json:"contactInfo" validate:"required,min=5,max=50"`
	ImageURL    string `json:"imageUrl"`
}

// RegisterInput pairs a new café with the credentials of its admin account.
type RegisterInput struct {
	Cafe          CafeInput `json:"cafe"`
	AdminEmail    string    `json:"adminEmail" validate:"required,email"`
	AdminPassword string    `json:"adminPassword" validate:"required,min=6"`
}

// CafeUpdate is a partial edit: nil fields keep their prior values. An
// explicitly present ImageURL (including an empty one) overwrites, with the
// blob store updated accordingly.
type CafeUpdate struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	ContactInfo *string `json:"contactInfo"`
	ImageURL    *string `json:"imageUrl"`
}

// placeholderImage generates the fallback image URL used when a café or menu
// item is created without one.
func placeholderImage(name string) string {
	return "https://placehold.co/600x400.png?text=" + url.QueryEscape(name)
}

// Cafes returns a copy of all cafés.
func (s *CatalogStore) Cafes() []models.Cafe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cafes := make([]models.Cafe, len(s.cafes))
	copy(cafes, s.cafes)
	return cafes
}

// GetCafeByID returns the café with the given ID.
func (s *CatalogStore) GetCafeByID(id string) (*models.Cafe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cafes {
		if c.ID == id {
			cafe := c
			return &cafe, nil
		}
	}
	return nil, fmt.Errorf("cafe with ID %s not found", id)
}

// RegisterCafeAndAdmin is the self-service signup: it atomically creates a
// café, its owning cafeadmin user, and the default category list, then logs
// the new admin in. Fails with ErrEmailTaken if the admin email is already
// registered; nothing is created in that case.
func (s *CatalogStore) RegisterCafeAndAdmin(input RegisterInput) (*models.Cafe, *models.User, error) {
	cafe, admin, err := s.createCafeWithAdmin(input, true)
	if err != nil {
		return nil, nil, err
	}
	s.notify(Event{Kind: EventCafeRegistered, EntityID: cafe.ID, CafeID: cafe.ID})
	return cafe, admin, nil
}

// AddCafeBySuperAdmin provisions a café and its admin account on behalf of a
// tenant. Identical to registration except the active session is untouched:
// the acting user remains the superadmin.
func (s *CatalogStore) AddCafeBySuperAdmin(input RegisterInput) (*models.Cafe, *models.User, error) {
	cafe, admin, err := s.createCafeWithAdmin(input, false)
	if err != nil {
		return nil, nil, err
	}
	s.notify(Event{Kind: EventCafeProvisioned, EntityID: cafe.ID, CafeID: cafe.ID})
	return cafe, admin, nil
}

func (s *CatalogStore) createCafeWithAdmin(input RegisterInput, autoLogin bool) (*models.Cafe, *models.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, nil, ErrNotReady
	}
	for _, u := range s.users {
		if u.Email == input.AdminEmail {
			return nil, nil, ErrEmailTaken
		}
	}

	cafeID := uuid.New().String()
	userID := uuid.New().String()
	imageURL := input.Cafe.ImageURL
	if imageURL == "" {
		imageURL = placeholderImage(input.Cafe.Name)
	}

	cafe := models.Cafe{
		ID:          cafeID,
		Name:        input.Cafe.Name,
		Address:     input.Cafe.Address,
		ContactInfo: input.Cafe.ContactInfo,
		ImageURL:    imageURL,
		OwnerUserID: userID,
	}
	admin := models.User{
		ID:       userID,
		Email:    input.AdminEmail,
		Password: input.AdminPassword,
		Role:     models.RoleCafeAdmin,
		CafeID:   cafeID,
	}

	s.cafes = append(s.cafes, cafe)
	s.users = append(s.users, admin)
	seed := models.DefaultMenuCategories()
	sort.Strings(seed)
	s.categories[cafeID] = seed

	if autoLogin {
		current := admin
		s.currentUser = &current
	}

	if models.IsInlineImage(imageURL) {
		s.putBlob(cafeID, imageURL)
	}
	s.persistCafes()
	s.persistUsers()
	s.persistCategories()
	if autoLogin {
		s.persistSession()
	}
	return &cafe, &admin, nil
}

// EditCafe merges the provided fields onto the café's record. Café details
// only; admin credentials are changed through ResetCafeAdminPassword.
func (s *CatalogStore) EditCafe(id string, update CafeUpdate) (*models.Cafe, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}

	idx := -1
	for i := range s.cafes {
		if s.cafes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("cafe with ID %s not found", id)
	}

	cafe := &s.cafes[idx]
	if update.Name != nil {
		cafe.Name = *update.Name
	}
	if update.Address != nil {
		cafe.Address = *update.Address
	}
	if update.ContactInfo != nil {
		cafe.ContactInfo = *update.ContactInfo
	}
	if update.ImageURL != nil {
		s.replaceBlob(cafe.ID, cafe.ImageURL, *update.ImageURL)
		cafe.ImageURL = *update.ImageURL
	}
	edited := *cafe
	s.persistCafes()
	s.mu.Unlock()

	s.notify(Event{Kind: EventCafeUpdated, EntityID: id, CafeID: id})
	return &edited, nil
}

// DeleteCafe removes a café and cascades: its menu items, its category list,
// its owning admin user, every blob payload for the café and its items, and
// the active session if it belonged to the deleted admin. The cascade is
// atomic with respect to readers.
func (s *CatalogStore) DeleteCafe(id string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	idx := -1
	for i := range s.cafes {
		if s.cafes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("cafe with ID %s not found", id)
	}

	s.cafes = append(s.cafes[:idx], s.cafes[idx+1:]...)

	blobIDs := []string{id}
	kept := s.menuItems[:0]
	for _, item := range s.menuItems {
		if item.CafeID == id {
			blobIDs = append(blobIDs, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	s.menuItems = kept

	delete(s.categories, id)

	users := s.users[:0]
	for _, u := range s.users {
		if u.Role == models.RoleCafeAdmin && u.CafeID == id {
			continue
		}
		users = append(users, u)
	}
	s.users = users

	sessionCleared := false
	if s.currentUser != nil && s.currentUser.Role == models.RoleCafeAdmin && s.currentUser.CafeID == id {
		s.currentUser = nil
		sessionCleared = true
	}

	s.deleteBlobs(blobIDs...)
	s.persistCafes()
	s.persistMenuItems()
	s.persistCategories()
	s.persistUsers()
	if sessionCleared {
		s.persistSession()
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventCafeDeleted, EntityID: id, CafeID: id})
	return nil
}

// ResetCafeAdminPassword replaces the credential of a café's owning admin.
func (s *CatalogStore) ResetCafeAdminPassword(cafeID, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	idx := -1
	for i := range s.users {
		if s.users[i].Role == models.RoleCafeAdmin && s.users[i].CafeID == cafeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("admin for cafe %s not found", cafeID)
	}

	s.users[idx].Password = newPassword
	userID := s.users[idx].ID
	if s.currentUser != nil && s.currentUser.ID == userID {
		s.currentUser.Password = newPassword
		s.persistSession()
	}
	s.persistUsers()
	s.mu.Unlock()

	s.notify(Event{Kind: EventAdminPasswordReset, EntityID: userID, CafeID: cafeID})
	return nil
}
