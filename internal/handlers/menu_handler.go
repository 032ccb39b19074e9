package handlers

import (
	"log"
	"net/url"

	"kafeku/internal/services"
	"kafeku/internal/store"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for menu items, categories and the
// aggregate stats the dashboard shows.
type MenuHandler struct {
	catalog     *store.CatalogStore
	authService *services.AuthService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(catalog *store.CatalogStore, authService *services.AuthService) *MenuHandler {
	return &MenuHandler{
		catalog:     catalog,
		authService: authService,
	}
}

// RegisterRoutes registers menu routes. Menus and categories are publicly
// browsable; mutations go through the auth middleware and are café-admin
// scoped.
func (h *MenuHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/cafes/:cafeId/menu", h.HandleGetMenu)
	router.Get("/cafes/:cafeId/categories", h.HandleGetCategories)
	router.Get("/stats", h.HandleGetStats)

	router.Post("/menu-items", auth, h.HandleAddMenuItem)
	router.Put("/menu-items/:id", auth, h.HandleEditMenuItem)
	router.Delete("/menu-items/:id", auth, h.HandleDeleteMenuItem)

	router.Post("/cafes/:cafeId/categories", auth, h.HandleAddCategory)
	router.Put("/cafes/:cafeId/categories", auth, h.HandleEditCategory)
	router.Delete("/cafes/:cafeId/categories/:name", auth, h.HandleDeleteCategory)
}

// HandleGetMenu lists one café's menu items.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	return c.JSON(h.catalog.MenuItemsByCafeID(c.Params("cafeId")))
}

// HandleGetCategories lists one café's category names.
func (h *MenuHandler) HandleGetCategories(c *fiber.Ctx) error {
	return c.JSON(h.catalog.MenuCategoriesForCafe(c.Params("cafeId")))
}

// HandleGetStats reports the dashboard aggregates.
func (h *MenuHandler) HandleGetStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"totalMenuItems":        h.catalog.TotalMenuItemCount(),
		"totalUniqueCategories": h.catalog.TotalUniqueCategoryCount(),
	})
}

// HandleAddMenuItem creates a menu item for the café named in the body.
func (h *MenuHandler) HandleAddMenuItem(c *fiber.Ctx) error {
	var input store.MenuItemInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing menu item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, input.CafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	item, err := h.catalog.AddMenuItem(input)
	if err != nil {
		log.Printf("Error adding menu item: %v", err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not add menu item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleEditMenuItem merges the provided fields onto a menu item.
func (h *MenuHandler) HandleEditMenuItem(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.catalog.GetMenuItemByID(id)
	if err != nil {
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Menu item not found",
			"error":   err.Error(),
		})
	}
	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, existing.CafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	var update store.MenuItemUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing menu item update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	item, err := h.catalog.EditMenuItem(id, update)
	if err != nil {
		log.Printf("Error editing menu item %s: %v", id, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not edit menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleDeleteMenuItem removes a menu item.
func (h *MenuHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, err := h.catalog.GetMenuItemByID(id)
	if err != nil {
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Menu item not found",
			"error":   err.Error(),
		})
	}
	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, existing.CafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	if err := h.catalog.DeleteMenuItem(id); err != nil {
		log.Printf("Error deleting menu item %s: %v", id, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not delete menu item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Menu item deleted",
	})
}

// CategoryRequest represents the body for adding a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// RenameCategoryRequest represents the body for renaming a category.
type RenameCategoryRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// HandleAddCategory inserts a category name into a café's list.
func (h *MenuHandler) HandleAddCategory(c *fiber.Ctx) error {
	cafeID := c.Params("cafeId")
	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.catalog.AddMenuCategory(cafeID, req.Name); err != nil {
		log.Printf("Error adding category for cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not add category",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(h.catalog.MenuCategoriesForCafe(cafeID))
}

// HandleEditCategory renames a category, rewriting the items that used it.
func (h *MenuHandler) HandleEditCategory(c *fiber.Ctx) error {
	cafeID := c.Params("cafeId")
	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	var req RenameCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.catalog.EditMenuCategory(cafeID, req.OldName, req.NewName); err != nil {
		log.Printf("Error renaming category for cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not rename category",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.catalog.MenuCategoriesForCafe(cafeID))
}

// HandleDeleteCategory removes a name from a café's list. Items keep the
// orphaned name.
func (h *MenuHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	cafeID := c.Params("cafeId")
	if !h.catalog.Can(currentUser(c), store.ActionManageMenu, cafeID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not manage this cafe's menu",
		})
	}

	name := c.Params("name")
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}

	if err := h.catalog.DeleteMenuCategory(cafeID, name); err != nil {
		log.Printf("Error deleting category for cafe %s: %v", cafeID, err)
		return c.Status(statusForStoreError(err)).JSON(fiber.Map{
			"message": "Could not delete category",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.catalog.MenuCategoriesForCafe(cafeID))
}
