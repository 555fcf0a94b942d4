package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type GormRecipeRepository struct {
	db *gorm.DB
}

// Create inserts the recipe row only; ingredient lines go through ReplaceIngredients.
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error, "create recipe")
}

func (r *GormRecipeRepository) UpdateFields(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"name":         recipe.Name,
		"text":         recipe.Text,
		"cooking_time": recipe.CookingTime,
		"image_key":    recipe.ImageKey,
	})
	if result.Error != nil {
		return translate(result.Error, "update recipe")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the recipe and every row that references it. Callers run it
// inside Store.Atomic so the dependent deletes and the recipe delete commit together.
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	for _, dependent := range []interface{}{&models.Favorite{}, &models.ShoppingCart{}, &models.RecipeIngredient{}} {
		if err := db.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
			return translate(err, "delete recipe dependents")
		}
	}

	result := db.Delete(&models.Recipe{}, id)
	if result.Error != nil {
		return translate(result.Error, "delete recipe")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, translate(err, "find recipe")
	}
	return &recipe, nil
}

func (r *GormRecipeRepository) ReplaceIngredients(ctx context.Context, recipeID uint, items []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return translate(err, "delete recipe ingredients")
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		}
	}
	return translate(db.Omit(clause.Associations).CreateInBatches(rows, 100).Error, "insert recipe ingredients")
}

// List returns recipes newest first plus the total matching count.
func (r *GormRecipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.Where("id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		query = query.Where("id IN (?)", db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *filter.InCartOf))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count recipes")
	}

	var recipes []models.Recipe
	err := query.Order("pub_date DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, 0, translate(err, "list recipes")
	}
	return recipes, total, nil
}

func (r *GormRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	if limit == 0 {
		return []models.Recipe{}, nil
	}
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("pub_date DESC").Order("id DESC")
	if limit >= 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, translate(err, "list author recipes")
	}
	return recipes, nil
}

func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count author recipes")
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

func (r *GormRecipeRepository) IngredientLines(ctx context.Context, recipeIDs []uint) (map[uint][]types.RecipeIngredientView, error) {
	out := make(map[uint][]types.RecipeIngredientView, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID        uint
		ID              uint
		Name            string
		MeasurementUnit string
		Amount          int
	}
	err := r.db.WithContext(ctx).Table("recipe_ingredients AS ri").
		Select("ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id IN ?", recipeIDs).
		Order("ri.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load recipe ingredients")
	}

	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], types.RecipeIngredientView{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return out, nil
}

func (r *GormRecipeRepository) ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	var items []types.ShoppingItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS amount
		FROM shopping_carts AS sc
		JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id
		JOIN ingredients AS i ON i.id = ri.ingredient_id
		WHERE sc.user_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name ASC, i.measurement_unit ASC
	`, userID).Scan(&items).Error
	if err != nil {
		return nil, translate(err, "aggregate shopping list")
	}
	return items, nil
}
