package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"kafeku/internal/handlers"
	"kafeku/internal/middleware"
	"kafeku/internal/services"
	"kafeku/internal/storage"
	"kafeku/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBSeq int64

// setupApp wires a Fiber app over in-memory SQLite with all handlers, the
// same way main does. Each call gets its own uniquely named database so
// tests stay isolated across pooled connections.
func setupApp(t *testing.T) (*fiber.App, *store.CatalogStore) {
	t.Helper()

	meta, blobs, err := storage.Open(storage.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1)),
	})
	require.NoError(t, err)

	catalog := store.NewCatalogStore(meta, blobs, store.DefaultBootstrapAdmin())
	require.NoError(t, catalog.Init(context.Background()))

	authService := services.NewAuthService(catalog, "test_jwt_secret")
	authHandler := handlers.NewAuthHandler(catalog, authService)
	cafeHandler := handlers.NewCafeHandler(catalog, authService)
	menuHandler := handlers.NewMenuHandler(catalog, authService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(apiV1)
	cafeHandler.RegisterRoutes(apiV1, authRequired)
	menuHandler.RegisterRoutes(apiV1, authRequired)

	return app, catalog
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerCafe(t *testing.T, app *fiber.App, name, email, password string) (cafeID, token string) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"cafe": map[string]interface{}{
			"name":        name,
			"address":     "Jl. Bahagia No. 123",
			"contactInfo": "0812-3456-7890",
		},
		"adminEmail":    email,
		"adminPassword": password,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cafe := body["cafe"].(map[string]interface{})
	return cafe["id"].(string), body["token"].(string)
}

func loginAs(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["token"].(string)
}

func TestRegisterLoginAndBrowse(t *testing.T) {
	app, _ := setupApp(t)

	cafeID, token := registerCafe(t, app, "Kopi Pagi", "a@x.com", "secret1")
	require.NotEmpty(t, token)

	// Wrong password fails opaquely.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Duplicate admin email is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"cafe": map[string]interface{}{
			"name":        "Kopi Lain",
			"address":     "Jl. Kenanga No. 9",
			"contactInfo": "0812-0000-0000",
		},
		"adminEmail":    "a@x.com",
		"adminPassword": "secret2",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Public browsing needs no token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cafes", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, listResp.StatusCode)
	raw, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	listResp.Body.Close()
	var cafes []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &cafes))
	require.Len(t, cafes, 1)
	assert.Equal(t, cafeID, cafes[0]["id"])
	// No credential leaks through the café record.
	assert.NotContains(t, cafes[0], "password")
}

func TestMenuItemLifecycleOverHTTP(t *testing.T) {
	app, _ := setupApp(t)
	cafeID, token := registerCafe(t, app, "Kopi Pagi", "a@x.com", "secret1")

	// Mutations require a token.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/menu-items", "", map[string]interface{}{
		"cafeId": cafeID, "name": "Nasi Goreng", "price": 25000, "category": "Makanan Utama",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, item := doJSON(t, app, http.MethodPost, "/api/v1/menu-items", token, map[string]interface{}{
		"cafeId": cafeID, "name": "Nasi Goreng", "price": 25000, "category": "Makanan Utama",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	itemID := item["id"].(string)

	price := 27000
	resp, edited := doJSON(t, app, http.MethodPut, "/api/v1/menu-items/"+itemID, token, map[string]interface{}{
		"price": price,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(27000), edited["price"])
	assert.Equal(t, "Nasi Goreng", edited["name"])

	resp, stats := doJSON(t, app, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), stats["totalMenuItems"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/menu-items/"+itemID, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/menu-items/"+itemID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCategoryEndpointsAndTenantIsolation(t *testing.T) {
	app, catalog := setupApp(t)
	firstID, firstToken := registerCafe(t, app, "Kopi Pagi", "a@x.com", "secret1")
	secondID, secondToken := registerCafe(t, app, "Kopi Lain", "b@x.com", "secret2")

	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cafes/%s/categories", firstID), firstToken, map[string]string{
		"name": "Minuman Spesial",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Adding the same name twice fails.
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cafes/%s/categories", firstID), firstToken, map[string]string{
		"name": "Minuman Spesial",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// An admin cannot touch another café's categories.
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/cafes/%s/categories", firstID), secondToken, map[string]string{
		"name": "Penyusup",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.NotContains(t, catalog.MenuCategoriesForCafe(secondID), "Penyusup")

	// Renaming via the API.
	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/cafes/%s/categories", firstID), firstToken, map[string]string{
		"oldName": "Minuman Spesial",
		"newName": "Minuman Istimewa",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Deleting with an escaped name in the path.
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/cafes/%s/categories/Minuman%%20Istimewa", firstID), firstToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/cafes/%s/categories/Minuman%%20Istimewa", firstID), firstToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSuperadminProvisionAndCascadeDelete(t *testing.T) {
	app, catalog := setupApp(t)
	bootstrap := store.DefaultBootstrapAdmin()
	superToken := loginAs(t, app, bootstrap.Email, bootstrap.Password)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/cafes", superToken, map[string]interface{}{
		"cafe": map[string]interface{}{
			"name":        "Kopi Tetangga",
			"address":     "Jl. Anggrek No. 5",
			"contactInfo": "0812-9999-8888",
		},
		"adminEmail":    "tetangga@x.com",
		"adminPassword": "secret3",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cafeID := body["cafe"].(map[string]interface{})["id"].(string)

	// A cafeadmin cannot provision.
	_, adminToken := registerCafe(t, app, "Kopi Pagi", "a@x.com", "secret1")
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/cafes", adminToken, map[string]interface{}{
		"cafe": map[string]interface{}{
			"name":        "Kopi Gelap",
			"address":     "Jl. Gelap No. 13",
			"contactInfo": "0812-7777-6666",
		},
		"adminEmail":    "gelap@x.com",
		"adminPassword": "secret4",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Superadmin resets the provisioned admin's credential.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/cafes/"+cafeID+"/admin-password", superToken, map[string]string{
		"password": "rahasia-baru",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	loginAs(t, app, "tetangga@x.com", "rahasia-baru")

	// Deleting the café cascades; its admin cannot log in anymore.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/cafes/"+cafeID, superToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/cafes/"+cafeID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "tetangga@x.com",
		"password": "rahasia-baru",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	assert.Empty(t, catalog.MenuItemsByCafeID(cafeID))
	catalog.Close()
}
