package storage

import (
	"context"

	"recipebook/internal/domain"
)

// Keys under which the catalog keeps its durable state.
const (
	RecipesKey  = "recipes_v1"
	DarkModeKey = "dark_mode"
)

// Store defines the durable key-value medium behind the catalog.
// It lets us swap the embedded database for another backend without
// touching the repository or the controller.
type Store interface {
	// LoadRecipes returns the stored collection. A missing or unreadable
	// value yields an empty collection; failures are logged, never returned.
	LoadRecipes(ctx context.Context) []domain.Recipe

	// SaveRecipes overwrites the stored collection with recipes.
	SaveRecipes(ctx context.Context, recipes []domain.Recipe) error

	// LoadFlag reads a boolean preference. Missing keys read as false.
	LoadFlag(ctx context.Context, key string) bool

	// SaveFlag writes a boolean preference as "1" or "0".
	SaveFlag(ctx context.Context, key string, value bool) error

	// Get returns the raw value stored under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores a raw value under key, replacing any prior value.
	Put(ctx context.Context, key string, value []byte) error

	// Close gracefully shuts down the underlying database.
	Close() error
}
