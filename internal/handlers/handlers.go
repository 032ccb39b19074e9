package handlers

import (
	"errors"
	"strings"

	"kafeku/internal/middleware"
	"kafeku/internal/models"
	"kafeku/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user placed in the context by the
// auth middleware, or nil on public routes.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

// statusForStoreError maps catalog store errors onto HTTP status codes.
func statusForStoreError(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrDuplicateCategory):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrCategoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrNotReady):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &validationErrors):
		return fiber.StatusBadRequest
	case strings.Contains(err.Error(), "not found"):
		return fiber.StatusNotFound
	case strings.Contains(err.Error(), "must"):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// sanitizeUser blanks the credential before a user record leaves the API.
func sanitizeUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.Password = ""
	return &clean
}
