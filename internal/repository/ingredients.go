package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

type GormIngredientRepository struct {
	db *gorm.DB
}

func (r *GormIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err, "find ingredient")
	}
	return &ingredient, nil
}

// SearchByPrefix matches names case-insensitively; an empty prefix returns everything.
func (r *GormIngredientRepository) SearchByPrefix(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, translate(err, "search ingredients")
	}
	return ingredients, nil
}

func (r *GormIngredientRepository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, translate(err, "check ingredients")
	}

	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *GormIngredientRepository) Exists(ctx context.Context, name, unit string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "check ingredient")
	}
	return count > 0, nil
}

func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	return translate(r.db.WithContext(ctx).Create(ingredient).Error, "create ingredient")
}
