package store

import "kafeku/internal/models"

// Action names a capability checked by Can. Authorization is decided here
// rather than by role-string comparisons scattered across callers.
type Action string

const (
	// ActionProvisionCafe covers creating cafés and admin accounts on
	// behalf of tenants, and deleting arbitrary cafés.
	ActionProvisionCafe Action = "cafe:provision"
	// ActionManageCafe covers editing or deleting one café's profile.
	ActionManageCafe Action = "cafe:manage"
	// ActionManageMenu covers one café's menu items and categories.
	ActionManageMenu Action = "menu:manage"
	// ActionResetAdminPassword covers resetting a café admin's credential.
	ActionResetAdminPassword Action = "admin:reset-password"
)

// Login matches the submitted credentials against the user collection with
// an exact comparison on both fields. On success the matched user becomes the
// current session; on failure the session is cleared and
// ErrInvalidCredentials returned. Plain comparison, no lockout: the
// prototype-grade credential handling is intentional.
func (s *CatalogStore) Login(email, password string) (*models.User, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, ErrNotReady
	}

	for _, u := range s.users {
		if u.Email == email && u.Password == password {
			user := u
			s.currentUser = &user
			s.persistSession()
			s.mu.Unlock()

			result := user
			s.notify(Event{Kind: EventLoggedIn, EntityID: user.ID, CafeID: user.CafeID})
			return &result, nil
		}
	}

	s.currentUser = nil
	s.persistSession()
	s.mu.Unlock()
	return nil, ErrInvalidCredentials
}

// Logout clears the session unconditionally.
func (s *CatalogStore) Logout() {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return
	}
	s.currentUser = nil
	s.persistSession()
	s.mu.Unlock()

	s.notify(Event{Kind: EventLoggedOut})
}

// CurrentUser returns a copy of the currently authenticated user, or nil.
func (s *CatalogStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}

// Can reports whether user may perform action on the café identified by
// cafeID. Superadmins can do everything; cafeadmins manage only their own
// café. cafeID is ignored for ActionProvisionCafe.
func (s *CatalogStore) Can(user *models.User, action Action, cafeID string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleSuperAdmin {
		return true
	}
	if user.Role != models.RoleCafeAdmin {
		return false
	}
	switch action {
	case ActionManageCafe, ActionManageMenu:
		return cafeID != "" && user.CafeID == cafeID
	default:
		return false
	}
}
