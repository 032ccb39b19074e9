package handlers

import (
	"log"

	"kafeku/internal/services"
	"kafeku/internal/store"

	"github.com/gofiber/fiber/v2"
)

// CafeHandler handles HTTP requests for café profiles and provisioning.
type CafeHandler struct {
	catalog     *store.CatalogStore
	authService *services.AuthService
}

// NewCafeHandler creates a new CafeHandler.
func NewCafeHandler(catalog *store.CatalogStore, authService *services.AuthService) *CafeHandler {
	return &CafeHandler{
		catalog:     catalog,
		authService: authService,
	}
}

// RegisterRoutes registers café routes. Browsing is public; mutations go
// through the auth middleware and the store's capability check.
func (h *CafeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/cafes", h.HandleGetCafes)
	router.Get("/cafes/:id", h.HandleGetCafeByID)

	router.Post("/cafes", auth, h.HandleProvisionCafe)
	router.Put("/cafes/:id", auth, h.HandleEditCafe)
	router.Delete("/cafes/:id", auth, h.HandleDeleteCafe)
	router.Patch("/cafes/:id/admin-password", auth, h.HandleResetAdminPassword)
}

// HandleGetCafes lists all cafés for public browsing.
func (h *CafeHandler) HandleGetCafes(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Cafes())
}

// HandleGetCafeByID retrieves a single café.
func (h *CafeHandler) HandleGetCafeByID(c *fiber.Ctx) error {
	cafe, err := h.catalog.GetCafeByID(c.Params("id"))
	if err != nil {
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Cafe not found",
			"error":   err.Error(),
		})
	}
	return c.JSON(cafe)
}

// HandleProvisionCafe creates a café and its admin account on behalf of a
// tenant. Superadmin only; the acting session is untouched.
func (h *CafeHandler) HandleProvisionCafe(c *fiber.Ctx) error {
	user := currentUser(c)
	if !h.catalog.Can(user, store.ActionProvisionCafe, "") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Only a superadmin can provision cafes",
		})
	}

	var input store.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing provision request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cafe, admin, err := h.catalog.AddCafeBySuperAdmin(input)
	if err != nil {
		log.Printf("Error provisioning cafe: %v", err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Provisioning failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cafe provisioned",
		"cafe":    cafe,
		"user":    sanitizeUser(admin),
	})
}

// HandleEditCafe merges the provided fields onto a café's profile.
func (h *CafeHandler) HandleEditCafe(c *fiber.Ctx) error {
	cafeID := c.Params("id")
	if !h.catalog.Can(currentUser(c), store.ActionManageCafe, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe",
		})
	}

	var update store.CafeUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing cafe update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cafe, err := h.catalog.EditCafe(cafeID, update)
	if err != nil {
		log.Printf("Error editing cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not edit cafe",
			"error":   err.Error(),
		})
	}
	return c.JSON(cafe)
}

// HandleDeleteCafe removes a café with its full cascade. Allowed for the
// superadmin and for the café's own admin.
func (h *CafeHandler) HandleDeleteCafe(c *fiber.Ctx) error {
	cafeID := c.Params("id")
	if !h.catalog.Can(currentUser(c), store.ActionManageCafe, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe",
		})
	}

	if err := h.catalog.DeleteCafe(cafeID); err != nil {
		log.Printf("Error deleting cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not delete cafe",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cafe deleted",
	})
}

// ResetPasswordRequest represents the body for an admin credential reset.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// HandleResetAdminPassword replaces a café admin's credential. Kept separate
// from café editing on purpose. Superadmin only.
func (h *CafeHandler) HandleResetAdminPassword(c *fiber.Ctx) error {
	cafeID := c.Params("id")
	if !h.catalog.Can(currentUser(c), store.ActionResetAdminPassword, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Only a superadmin can reset admin credentials",
		})
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.catalog.ResetCafeAdminPassword(cafeID, req.Password); err != nil {
		log.Printf("Error resetting admin password for cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not reset password",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Password reset",
	})
}
