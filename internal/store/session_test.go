package store_test

import (
	"testing"

	"kafeku/internal/models"
	"kafeku/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginScenarios(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)
	s.Logout()

	// Correct credentials set the session to that user.
	user, err := s.Login("a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, cafe.ID, user.CafeID)
	current := s.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, cafe.ID, current.CafeID)

	// A wrong password fails and clears the session.
	_, err = s.Login("a@x.com", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
	assert.Nil(t, s.CurrentUser())

	// An unknown email fails the same way.
	_, err = s.Login("nobody@x.com", "secret1")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
	assert.Nil(t, s.CurrentUser())
}

func TestLogout(t *testing.T) {
	s, _, _ := newReadyStore(t)
	registerKopiPagi(t, s)

	require.NotNil(t, s.CurrentUser())
	s.Logout()
	assert.Nil(t, s.CurrentUser())

	// Logging out while logged out is harmless.
	s.Logout()
	assert.Nil(t, s.CurrentUser())
}

func TestCan(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, admin := registerKopiPagi(t, s)
	superadmin := store.DefaultBootstrapAdmin()

	assert.True(t, s.Can(&superadmin, store.ActionProvisionCafe, ""))
	assert.True(t, s.Can(&superadmin, store.ActionManageCafe, cafe.ID))
	assert.True(t, s.Can(&superadmin, store.ActionResetAdminPassword, cafe.ID))

	assert.True(t, s.Can(admin, store.ActionManageCafe, cafe.ID))
	assert.True(t, s.Can(admin, store.ActionManageMenu, cafe.ID))
	assert.False(t, s.Can(admin, store.ActionManageCafe, "other-cafe"))
	assert.False(t, s.Can(admin, store.ActionProvisionCafe, ""))
	assert.False(t, s.Can(admin, store.ActionResetAdminPassword, cafe.ID))

	assert.False(t, s.Can(nil, store.ActionManageMenu, cafe.ID))
	assert.False(t, s.Can(&models.User{Role: "unknown"}, store.ActionManageMenu, cafe.ID))
}
