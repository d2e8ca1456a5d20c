package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hors-serie-api/domain"
)

// ============================================
// HELPERS
// ============================================

func newTestStore() *MemoryStore {
	counter := 0
	return NewMemoryStore(
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		}),
		WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		}),
	)
}

func testProperty(title, propertyType, city string, price, surface int) domain.Property {
	return domain.Property{
		Title:       title,
		Description: "Description " + title,
		Type:        propertyType,
		Price:       price,
		City:        city,
		Address:     "1 Rue Test, " + city,
		Latitude:    "47.4784",
		Longitude:   "-0.5632",
		Surface:     surface,
		Bedrooms:    3,
		Bathrooms:   2,
		LandSize:    500,
		Images:      []string{"/objects/uploads/a.jpg"},
	}
}

func ids(properties []domain.Property) []string {
	out := make([]string, len(properties))
	for i, p := range properties {
		out[i] = p.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

// ============================================
// PROPERTIES
// ============================================

func TestMemoryStore_CreateAssignsDefaultsAndDisplayOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	var created []domain.Property
	for i := 0; i < 3; i++ {
		p, err := store.CreateProperty(ctx, testProperty(fmt.Sprintf("P%d", i), "villa", "Angers", 100000*(i+1), 100))
		require.NoError(t, err)
		created = append(created, p)
	}

	for i, p := range created {
		assert.Equal(t, i, p.DisplayOrder)
		assert.Equal(t, domain.PropertyStatusAvailable, p.Status)
		assert.Nil(t, p.Features)
		assert.Nil(t, p.DPEValue)
		assert.Nil(t, p.DPEClass)
	}

	list, err := store.ListProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(list))
}

func TestMemoryStore_CreateIgnoresClientDisplayOrderAndClasses(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	input := testProperty("Loft", "loft", "Angers", 425000, 185)
	input.DisplayOrder = 42
	bogus := "A"
	input.DPEValue = intPtr(95)
	input.DPEClass = &bogus

	created, err := store.CreateProperty(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 0, created.DisplayOrder)
	require.NotNil(t, created.DPEClass)
	assert.Equal(t, "B", *created.DPEClass)

	got, found, err := store.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created, got)
}

func TestMemoryStore_CreateAfterReorderUsesMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	a, _ := store.CreateProperty(ctx, testProperty("A", "villa", "Angers", 1, 1))
	b, _ := store.CreateProperty(ctx, testProperty("B", "villa", "Angers", 1, 1))
	require.NoError(t, store.ReorderProperties(ctx, []string{b.ID, a.ID}))
	require.NoError(t, store.ReorderProperties(ctx, []string{"x", "y", "z", "w", "v", a.ID}))

	c, err := store.CreateProperty(ctx, testProperty("C", "villa", "Angers", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 6, c.DisplayOrder)
}

func TestMemoryStore_GetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	created, _ := store.CreateProperty(ctx, testProperty("A", "villa", "Angers", 1, 1))
	created.Images[0] = "mutated"

	got, _, _ := store.GetProperty(ctx, created.ID)
	assert.Equal(t, "/objects/uploads/a.jpg", got.Images[0])
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := newTestStore()

	_, found, err := store.GetProperty(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_UpdateOnlyChangesProvidedFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	input := testProperty("Villa", "villa", "Cholet", 520000, 280)
	input.DPEValue = intPtr(65)
	created, _ := store.CreateProperty(ctx, input)

	updated, found, err := store.UpdateProperty(ctx, created.ID, domain.PropertyPatch{Price: intPtr(499000)})
	require.NoError(t, err)
	require.True(t, found)

	expected := created
	expected.Price = 499000
	assert.Equal(t, expected, updated)

	got, _, _ := store.GetProperty(ctx, created.ID)
	assert.Equal(t, expected, got)
}

func TestMemoryStore_UpdateKeepsDisplayOrderAndRederivesClass(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	a, _ := store.CreateProperty(ctx, testProperty("A", "villa", "Angers", 1, 1))
	b, _ := store.CreateProperty(ctx, testProperty("B", "villa", "Angers", 1, 1))

	updated, _, err := store.UpdateProperty(ctx, b.ID, domain.PropertyPatch{DPEValue: intPtr(300)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DisplayOrder)
	require.NotNil(t, updated.DPEClass)
	assert.Equal(t, "E", *updated.DPEClass)

	list, _ := store.ListProperties(ctx)
	assert.Equal(t, []string{a.ID, b.ID}, ids(list))
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	store := newTestStore()

	_, found, err := store.UpdateProperty(context.Background(), "missing", domain.PropertyPatch{Price: intPtr(1)})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Reorder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	p1, _ := store.CreateProperty(ctx, testProperty("1", "villa", "Angers", 1, 1))
	p2, _ := store.CreateProperty(ctx, testProperty("2", "villa", "Angers", 1, 1))
	p3, _ := store.CreateProperty(ctx, testProperty("3", "villa", "Angers", 1, 1))

	require.NoError(t, store.ReorderProperties(ctx, []string{p3.ID, p1.ID, p2.ID}))

	list, err := store.ListProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{p3.ID, p1.ID, p2.ID}, ids(list))
	for i, p := range list {
		assert.Equal(t, i, p.DisplayOrder)
	}
}

func TestMemoryStore_ReorderSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	p1, _ := store.CreateProperty(ctx, testProperty("1", "villa", "Angers", 1, 1))
	p2, _ := store.CreateProperty(ctx, testProperty("2", "villa", "Angers", 1, 1))

	require.NoError(t, store.ReorderProperties(ctx, []string{p2.ID, "ghost"}))

	got1, _, _ := store.GetProperty(ctx, p1.ID)
	got2, _, _ := store.GetProperty(ctx, p2.ID)
	assert.Equal(t, 0, got1.DisplayOrder)
	assert.Equal(t, 0, got2.DisplayOrder)

	// Empate en displayOrder: gana el orden de inserción
	list, _ := store.ListProperties(ctx)
	assert.Equal(t, []string{p1.ID, p2.ID}, ids(list))
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	p, _ := store.CreateProperty(ctx, testProperty("1", "villa", "Angers", 1, 1))

	deleted, err := store.DeleteProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, _ := store.GetProperty(ctx, p.ID)
	assert.False(t, found)

	deleted, err = store.DeleteProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// ============================================
// FILTERS
// ============================================

func seedCatalogue(t *testing.T, store *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	fixtures := []domain.Property{
		testProperty("Château", "château", "Saumur", 890000, 450),
		testProperty("Loft", "loft", "Angers", 425000, 185),
		testProperty("Maison", "Maison de Ville", "Angers", 385000, 160),
		testProperty("Villa", "villa", "Cholet", 520000, 280),
		testProperty("Appartement", "appartement", "Cholet", 245000, 85),
	}
	for _, p := range fixtures {
		_, err := store.CreateProperty(ctx, p)
		require.NoError(t, err)
	}
}

func TestMemoryStore_ListByType(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seedCatalogue(t, store)

	all, _ := store.ListProperties(ctx)

	for _, sentinel := range []string{"tous", "all", "TOUS"} {
		got, err := store.ListPropertiesByType(ctx, sentinel)
		require.NoError(t, err)
		assert.Equal(t, all, got, sentinel)
	}

	got, err := store.ListPropertiesByType(ctx, "maison de ville")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Maison", got[0].Title)

	got, _ = store.ListPropertiesByType(ctx, "manoir")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestMemoryStore_ListByCity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seedCatalogue(t, store)

	got, err := store.ListPropertiesByCity(ctx, "cho")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Villa", got[0].Title)
	assert.Equal(t, "Appartement", got[1].Title)
}

func TestMemoryStore_SearchPriceRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seedCatalogue(t, store)

	got, err := store.SearchProperties(ctx, domain.SearchFilters{
		MinPrice: intPtr(300000),
		MaxPrice: intPtr(500000),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 300000)
		assert.LessOrEqual(t, p.Price, 500000)
	}
}

func TestMemoryStore_SearchCombinesFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seedCatalogue(t, store)

	city := "angers"
	allTypes := "tous"
	got, err := store.SearchProperties(ctx, domain.SearchFilters{
		Type:       &allTypes,
		City:       &city,
		MinSurface: intPtr(170),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Loft", got[0].Title)

	all, _ := store.ListProperties(ctx)
	got, _ = store.SearchProperties(ctx, domain.SearchFilters{})
	assert.Equal(t, all, got)
}

// ============================================
// CONTACTS & USERS
// ============================================

func TestMemoryStore_Contacts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first, err := store.CreateContact(ctx, domain.Contact{Name: "Jeanne", Email: "j@example.fr", Subject: "vente", Message: "Bonjour"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), first.CreatedAt)

	second, _ := store.CreateContact(ctx, domain.Contact{Name: "Paul", Email: "p@example.fr", Subject: "recherche", Message: "Salut"})

	list, err := store.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	user, err := store.CreateUser(ctx, domain.User{Username: "luc", Password: "hash"})
	require.NoError(t, err)

	byID, found, _ := store.GetUserByID(ctx, user.ID)
	assert.True(t, found)
	assert.Equal(t, user, byID)

	byName, found, _ := store.GetUserByUsername(ctx, "luc")
	assert.True(t, found)
	assert.Equal(t, "hash", byName.Password)

	_, found, _ = store.GetUserByUsername(ctx, "LUC")
	assert.False(t, found)

	_, err = store.CreateUser(ctx, domain.User{Username: "luc", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	p, _ := store.CreateProperty(ctx, testProperty("1", "villa", "Angers", 1, 1))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(price int) {
			defer wg.Done()
			_, _, _ = store.UpdateProperty(ctx, p.ID, domain.PropertyPatch{Price: intPtr(price)})
			_, _ = store.ListProperties(ctx)
		}(i)
	}
	wg.Wait()

	got, found, _ := store.GetProperty(ctx, p.ID)
	require.True(t, found)
	assert.GreaterOrEqual(t, got.Price, 0)
}

// ============================================
// SEED
// ============================================

func TestSeed_LoadsCatalogueOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	log, _ := test.NewNullLogger()
	hash := func(password string) (string, error) { return "hashed:" + password, nil }
	admin := AdminSeed{Username: "luc", Password: "secret"}

	require.NoError(t, Seed(ctx, store, admin, hash, log))
	require.NoError(t, Seed(ctx, store, admin, hash, log))

	count, _ := store.CountProperties(ctx)
	assert.Equal(t, len(SampleProperties()), count)

	list, _ := store.ListProperties(ctx)
	assert.Equal(t, "Château du XVIIIe siècle", list[0].Title)
	for i, p := range list {
		assert.Equal(t, i, p.DisplayOrder)
		require.NotNil(t, p.DPEClass, p.Title)
	}

	user, found, _ := store.GetUserByUsername(ctx, "luc")
	require.True(t, found)
	assert.Equal(t, "hashed:secret", user.Password)
}

func TestSeed_SkipsAdminWithoutCredentials(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	log, _ := test.NewNullLogger()

	require.NoError(t, Seed(ctx, store, AdminSeed{}, nil, log))

	_, found, _ := store.GetUserByUsername(ctx, "")
	assert.False(t, found)
}
