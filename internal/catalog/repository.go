// Package catalog holds the in-memory recipe collection and the pure
// filter/search pipeline applied to it.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recipebook/internal/domain"
	"recipebook/internal/storage"
)

// Repository is the ordered, newest-first recipe collection. It is not safe
// for concurrent use; the controller's event loop is its only caller.
type Repository struct {
	store   storage.Store
	recipes []domain.Recipe
	log     logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

// NewRepository seeds a repository from the store.
func NewRepository(ctx context.Context, store storage.Store, logger logrus.FieldLogger) *Repository {
	r := &Repository{
		store:   store,
		recipes: store.LoadRecipes(ctx),
		log:     logger.WithField("component", "catalog"),
		now:     time.Now,
		newID:   newRecipeID,
	}
	r.log.WithField("recipe_count", len(r.recipes)).Info("Catalog loaded")
	return r
}

// newRecipeID returns a time-ordered UUIDv7, falling back to a random v4.
func newRecipeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Create validates d and prepends the resulting recipe to the collection.
// Validation failures leave the collection untouched.
func (r *Repository) Create(ctx context.Context, d domain.Draft) (domain.Recipe, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		r.log.WithError(err).Debug("Rejected recipe draft")
		return domain.Recipe{}, err
	}

	recipe := domain.Recipe{
		ID:          r.uniqueID(),
		Title:       d.Title,
		Category:    d.Category,
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
		Image:       d.Image,
		Favorite:    false,
		Created:     r.now().UTC(),
	}

	r.recipes = append([]domain.Recipe{recipe}, r.recipes...)
	if err := r.persist(ctx); err != nil {
		return recipe, err
	}

	r.log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"title":     recipe.Title,
	}).Info("Recipe created")
	return recipe, nil
}

func (r *Repository) uniqueID() string {
	for {
		id := r.newID()
		if _, taken := r.index(id); !taken {
			return id
		}
	}
}

// ToggleFavorite flips the favorite flag of the recipe with the given id.
// It reports false, without error, when no such recipe exists.
func (r *Repository) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	i, ok := r.index(id)
	if !ok {
		r.log.WithField("recipe_id", id).Debug("Favorite toggle ignored, recipe not found")
		return false, nil
	}
	r.recipes[i].Favorite = !r.recipes[i].Favorite
	if err := r.persist(ctx); err != nil {
		return true, err
	}
	r.log.WithFields(logrus.Fields{
		"recipe_id": id,
		"favorite":  r.recipes[i].Favorite,
	}).Info("Favorite toggled")
	return true, nil
}

// Get returns the recipe with the given id.
func (r *Repository) Get(id string) (domain.Recipe, bool) {
	i, ok := r.index(id)
	if !ok {
		return domain.Recipe{}, false
	}
	return r.recipes[i], true
}

// All returns a snapshot of the collection in display order.
func (r *Repository) All() []domain.Recipe {
	out := make([]domain.Recipe, len(r.recipes))
	copy(out, r.recipes)
	return out
}

func (r *Repository) index(id string) (int, bool) {
	for i := range r.recipes {
		if r.recipes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (r *Repository) persist(ctx context.Context) error {
	if err := r.store.SaveRecipes(ctx, r.recipes); err != nil {
		r.log.WithError(err).Error("Failed to persist catalog")
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}
