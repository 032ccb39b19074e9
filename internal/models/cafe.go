package models

import "strings"

// Cafe represents a tenant: one café with its profile and exactly one
// administrator account.
type Cafe struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Address     string `json:"address" validate:"required,min=5,max=100"`
	ContactInfo string `json:"contactInfo" validate:"required,min=5,max=50"`
	// ImageURL is either an external reference URL or an inline-encoded
	// data URI. Inline payloads never reach the metadata snapshot; they
	// are diverted to the blob store under this café's ID.
	ImageURL    string `json:"imageUrl,omitempty"`
	OwnerUserID string `json:"ownerUserId"`
}

// IsInlineImage reports whether an image value is an inline-encoded
// payload (a data URI) rather than an external reference URL.
func IsInlineImage(imageURL string) bool {
	return strings.HasPrefix(imageURL, "data:")
}
