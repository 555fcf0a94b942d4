package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IngredientService serves the ingredient catalogue. Ingredients are never
// modified through the API, so lookups by id are cached.
type IngredientService struct {
	store repository.Store
	cache *lru.Cache
}

func NewIngredientService(store repository.Store, cacheSize int) (*IngredientService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient cache: %w", err)
	}
	return &IngredientService{store: store, cache: cache}, nil
}

var _ IIngredientService = (*IngredientService)(nil)

func toIngredientView(i models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// Search returns ingredients whose name starts with prefix, ignoring case.
func (s *IngredientService) Search(ctx context.Context, prefix string) ([]types.IngredientView, error) {
	ingredients, err := s.store.Ingredients().SearchByPrefix(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, err
	}

	views := make([]types.IngredientView, len(ingredients))
	for i, ing := range ingredients {
		views[i] = toIngredientView(ing)
		s.cache.Add(ing.ID, views[i])
	}
	return views, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*types.IngredientView, error) {
	if v, ok := s.cache.Get(id); ok {
		view := v.(types.IngredientView)
		return &view, nil
	}

	ingredient, err := s.store.Ingredients().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := toIngredientView(*ingredient)
	s.cache.Add(id, view)
	return &view, nil
}

// IngredientRow is one record of a bulk import.
type IngredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type ImportResult struct {
	Inserted int
	Skipped  int
	Invalid  int
}

// Import inserts rows whose (name, unit) pair is not stored yet. The whole
// batch commits or fails together.
func (s *IngredientService) Import(ctx context.Context, rows []IngredientRow) (*ImportResult, error) {
	result := &ImportResult{}

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		repo := tx.Ingredients()
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			unit := strings.TrimSpace(row.MeasurementUnit)
			if name == "" || unit == "" || len(name) > 128 || len(unit) > 64 {
				result.Invalid++
				continue
			}

			exists, err := repo.Exists(ctx, name, unit)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			if err := repo.Create(ctx, &models.Ingredient{Name: name, MeasurementUnit: unit}); err != nil {
				return err
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import ingredients: %w", err)
	}

	logger.Info(ctx).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("invalid", result.Invalid).
		Msg("ingredient import finished")
	return result, nil
}
