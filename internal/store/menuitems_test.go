package store_test

import (
	"testing"

	"kafeku/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMenuItem(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	item, err := s.AddMenuItem(store.MenuItemInput{
		CafeID:   cafe.ID,
		Name:     "Nasi Goreng",
		Price:    25000,
		Category: "Makanan Utama",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, cafe.ID, item.CafeID)
	assert.Equal(t, "https://placehold.co/600x400.png?text=Nasi+Goreng", item.ImageURL)

	items := s.MenuItemsByCafeID(cafe.ID)
	require.Len(t, items, 1)
	assert.Equal(t, *item, items[0])
}

func TestAddMenuItem_UnknownCafe(t *testing.T) {
	s, _, _ := newReadyStore(t)
	_, err := s.AddMenuItem(store.MenuItemInput{
		CafeID: "missing", Name: "Nasi Goreng", Price: 25000, Category: "Makanan Utama",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestAddMenuItem_Validation(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	_, err := s.AddMenuItem(store.MenuItemInput{
		CafeID: cafe.ID, Name: "Nasi Goreng", Price: -1, Category: "Makanan Utama",
	})
	assert.Error(t, err)

	_, err = s.AddMenuItem(store.MenuItemInput{
		CafeID: cafe.ID, Name: "", Price: 25000, Category: "Makanan Utama",
	})
	assert.Error(t, err)
}

func TestEditMenuItem_PartialMerge(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	item, err := s.AddMenuItem(store.MenuItemInput{
		CafeID: cafe.ID, Name: "Nasi Goreng", Price: 25000, Category: "Makanan Utama",
	})
	require.NoError(t, err)

	price := 27000.0
	edited, err := s.EditMenuItem(item.ID, store.MenuItemUpdate{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 27000.0, edited.Price)
	assert.Equal(t, item.Name, edited.Name)
	assert.Equal(t, item.Category, edited.Category)
	assert.Equal(t, item.CafeID, edited.CafeID)
}

func TestEditMenuItem_CategoryNotValidatedAgainstList(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	item, err := s.AddMenuItem(store.MenuItemInput{
		CafeID: cafe.ID, Name: "Nasi Goreng", Price: 25000, Category: "Makanan Utama",
	})
	require.NoError(t, err)

	// An arbitrary string is accepted even though it is absent from the
	// café's category list.
	category := "Kategori Bebas"
	edited, err := s.EditMenuItem(item.ID, store.MenuItemUpdate{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "Kategori Bebas", edited.Category)
	assert.NotContains(t, s.MenuCategoriesForCafe(cafe.ID), "Kategori Bebas")
}

func TestEditMenuItem_NegativePriceRejected(t *testing.T) {
	s, _, _ := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	item, err := s.AddMenuItem(store.MenuItemInput{
		CafeID: cafe.ID, Name: "Nasi Goreng", Price: 25000, Category: "Makanan Utama",
	})
	require.NoError(t, err)

	price := -10.0
	_, err = s.EditMenuItem(item.ID, store.MenuItemUpdate{Price: &price})
	assert.Error(t, err)

	got, err := s.GetMenuItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got.Price)
}

func TestDeleteMenuItem(t *testing.T) {
	s, _, blobs := newReadyStore(t)
	cafe, _ := registerKopiPagi(t, s)

	item, err := s.AddMenuItem(store.MenuItemInput{
		CafeID:   cafe.ID,
		Name:     "Nasi Goreng",
		ImageURL: "data:image/png;base64,bmFzaQ==",
		Price:    25000,
		Category: "Makanan Utama",
	})
	require.NoError(t, err)
	s.Close()
	require.True(t, blobs.Has(item.ID))

	require.NoError(t, s.DeleteMenuItem(item.ID))
	s.Close()

	_, err = s.GetMenuItemByID(item.ID)
	assert.ErrorContains(t, err, "not found")
	assert.False(t, blobs.Has(item.ID))

	// No cascade beyond the item: the café and its categories survive.
	_, err = s.GetCafeByID(cafe.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, s.MenuCategoriesForCafe(cafe.ID))
}
