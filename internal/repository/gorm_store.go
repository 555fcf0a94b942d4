package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
)

// GormStore implements Store on top of a *gorm.DB, which may itself be a transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Users() UserRepository {
	return &GormUserRepository{db: s.db}
}

func (s *GormStore) Ingredients() IngredientRepository {
	return &GormIngredientRepository{db: s.db}
}

func (s *GormStore) Recipes() RecipeRepository {
	return &GormRecipeRepository{db: s.db}
}

func (s *GormStore) Relations() RelationRepository {
	return &GormRelationRepository{db: s.db}
}

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps GORM errors onto repository errors.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

// escapeLike escapes LIKE wildcards; queries use ESCAPE '\'.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\\' || r == '%' || r == '_' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
