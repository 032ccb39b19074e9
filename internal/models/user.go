package models

// Role determines what a user is allowed to manage.
type Role string

const (
	// RoleSuperAdmin can provision cafés and edit any tenant.
	RoleSuperAdmin Role = "superadmin"
	// RoleCafeAdmin administers exactly one café, linked via CafeID.
	RoleCafeAdmin Role = "cafeadmin"
)

// User represents an account that can sign in to the catalog.
// Passwords are stored and compared as plain values; this is a
// prototype-grade limitation kept on purpose, not an oversight.
type User struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=superadmin cafeadmin"`
	// CafeID links a cafeadmin to the café they own. Empty for superadmin.
	CafeID string `json:"cafeId,omitempty"`
}
