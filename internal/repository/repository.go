// Package repository hides persistence behind narrow interfaces so services
// can run against any store, inside or outside a transaction.
package repository

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Relation selects one of the user-scoped join tables.
type Relation int

const (
	Favorite Relation = iota
	ShoppingCart
	Subscription
)

func (r Relation) String() string {
	switch r {
	case Favorite:
		return "favorite"
	case ShoppingCart:
		return "shopping_cart"
	case Subscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// Store groups the repositories. Atomic runs fn with a Store bound to one
// transaction; returning an error from fn rolls everything back.
type Store interface {
	Users() UserRepository
	Ingredients() IngredientRepository
	Recipes() RecipeRepository
	Relations() RelationRepository
	Atomic(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateAvatar(ctx context.Context, id uint, key string) error
}

type IngredientRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	SearchByPrefix(ctx context.Context, prefix string) ([]models.Ingredient, error)
	// MissingIDs returns the ids that have no ingredient row.
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	Exists(ctx context.Context, name, unit string) (bool, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
}

// RecipeFilter narrows recipe listings. Nil fields do not filter.
type RecipeFilter struct {
	AuthorID    *uint
	FavoritedBy *uint
	InCartOf    *uint
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	// UpdateFields writes the scalar columns of recipe. PubDate and AuthorID are never changed.
	UpdateFields(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	// ReplaceIngredients deletes every ingredient row of the recipe and inserts items.
	ReplaceIngredients(ctx context.Context, recipeID uint, items []models.RecipeIngredient) error
	List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	// ListByAuthor returns the newest recipes first. A negative limit returns all.
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	// IngredientLines returns the ingredient lines of each recipe, ordered by line id.
	IngredientLines(ctx context.Context, recipeIDs []uint) (map[uint][]types.RecipeIngredientView, error)
	// ShoppingList aggregates cart ingredients of a user grouped by (name, unit), ordered by name.
	ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error)
}

// RelationRepository manipulates Favorite, ShoppingCart and Subscription
// rows as (subject, object) pairs: (user, recipe) or (user, author).
type RelationRepository interface {
	Exists(ctx context.Context, kind Relation, subject, object uint) (bool, error)
	// Add inserts the pair; a unique violation is reported as ErrDuplicate.
	Add(ctx context.Context, kind Relation, subject, object uint) error
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, kind Relation, subject, object uint) (bool, error)
	// Marked returns the subset of objects paired with subject.
	Marked(ctx context.Context, kind Relation, subject uint, objects []uint) (map[uint]bool, error)
	// Objects lists objects of subject, oldest relation first.
	Objects(ctx context.Context, kind Relation, subject uint, offset, limit int) ([]uint, int64, error)
}
