package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/domain"
	"recipebook/internal/storage"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupRepo(t *testing.T) (*Repository, *storage.BadgerStore) {
	t.Helper()

	store, err := storage.OpenInMemory(testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return NewRepository(context.Background(), store, testLogger()), store
}

func TestRepository_CreatePrependsAndPersists(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.NewDraft("Soup", "Dinner", "Water\nSalt", "Boil", ""))
	require.NoError(t, err)
	second, err := repo.Create(ctx, domain.NewDraft("  Pancakes ", "", "Flour\n\n Milk ", "Mix\nFry", ""))
	require.NoError(t, err)

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest recipe comes first")
	assert.Equal(t, first.ID, all[1].ID)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, "Pancakes", second.Title)
	assert.Equal(t, []string{"Flour", "Milk"}, second.Ingredients)
	assert.False(t, second.Favorite)
	assert.False(t, second.Created.IsZero())

	stored := store.LoadRecipes(ctx)
	require.Len(t, stored, 2)
	assert.Equal(t, second.ID, stored[0].ID)
}

func TestRepository_CreateRejectsInvalidDrafts(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	cases := map[string]domain.Draft{
		"empty title":            domain.NewDraft("   ", "Dinner", "Water", "Boil", ""),
		"whitespace ingredients": domain.NewDraft("Soup", "Dinner", "  \n\t", "Boil", ""),
		"no steps":               domain.NewDraft("Soup", "Dinner", "Water", "", ""),
	}
	for name, draft := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Create(ctx, draft)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Zero(t, len(repo.All()))
		})
	}

	_, ok, err := store.Get(ctx, storage.RecipesKey)
	require.NoError(t, err)
	assert.False(t, ok, "nothing persisted for rejected drafts")
}

func TestRepository_ToggleFavoriteIsAnInvolution(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	r, err := repo.Create(ctx, domain.NewDraft("Soup", "Dinner", "Water", "Boil", ""))
	require.NoError(t, err)

	found, err := repo.ToggleFavorite(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, found)
	got, _ := repo.Get(r.ID)
	assert.True(t, got.Favorite)
	assert.True(t, store.LoadRecipes(ctx)[0].Favorite, "toggle persisted")

	_, err = repo.ToggleFavorite(ctx, r.ID)
	require.NoError(t, err)
	got, _ = repo.Get(r.ID)
	assert.False(t, got.Favorite)
}

func TestRepository_ToggleFavoriteMissIsNoop(t *testing.T) {
	repo, _ := setupRepo(t)

	found, err := repo.ToggleFavorite(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_UniqueIDOnCollision(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	ids := []string{"same", "same", "other"}
	n := 0
	repo.newID = func() string {
		id := ids[n]
		n++
		return id
	}
	repo.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	a, err := repo.Create(ctx, domain.NewDraft("A", "", "x", "y", ""))
	require.NoError(t, err)
	b, err := repo.Create(ctx, domain.NewDraft("B", "", "x", "y", ""))
	require.NoError(t, err)

	assert.Equal(t, "same", a.ID)
	assert.Equal(t, "other", b.ID)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), b.Created)
}

func TestRepository_SeedsFromStore(t *testing.T) {
	store, err := storage.OpenInMemory(testLogger())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveRecipes(ctx, []domain.Recipe{
		{ID: "1", Title: "Soup", Ingredients: []string{"Water"}, Steps: []string{"Boil"}},
	}))

	repo := NewRepository(ctx, store, testLogger())
	r, ok := repo.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Soup", r.Title)
}

// failingStore accepts reads but rejects every write.
type failingStore struct {
	storage.Store
}

func (failingStore) LoadRecipes(context.Context) []domain.Recipe { return []domain.Recipe{} }
func (failingStore) SaveRecipes(context.Context, []domain.Recipe) error {
	return fmt.Errorf("disk full")
}

func TestRepository_PersistErrorIsReturned(t *testing.T) {
	repo := NewRepository(context.Background(), failingStore{}, testLogger())

	_, err := repo.Create(context.Background(), domain.NewDraft("Soup", "", "Water", "Boil", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, len(repo.All()), "in-memory state keeps the record")
}
