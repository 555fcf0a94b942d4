package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

const (
	recipeImagePrefix = "recipes/images"
	shortCodeLength   = 3
	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RecipeService handles recipe operations
type RecipeService struct {
	store   repository.Store
	images  storage.ImageStore
	proj    projector
	baseURL string
}

// NewRecipeService creates a new RecipeService instance. baseURL prefixes short links.
func NewRecipeService(store repository.Store, images storage.ImageStore, baseURL string) *RecipeService {
	return &RecipeService{
		store:   store,
		images:  images,
		proj:    projector{images: images},
		baseURL: baseURL,
	}
}

var _ IRecipeService = (*RecipeService)(nil)

// checkIngredients applies the list rules shared by create and update:
// non-empty, no repeated id, every id known.
func (s *RecipeService) checkIngredients(ctx context.Context, items []types.IngredientAmount, verr *ValidationError) error {
	if _, reported := verr.Fields["ingredients"]; reported {
		return nil
	}
	if len(items) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return nil
	}

	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		if seen[item.ID] {
			verr.Add("ingredients", "Ingredients must not repeat.")
			return nil
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	missing, err := s.store.Ingredients().MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range missing {
		verr.Add("ingredients", fmt.Sprintf("Ingredient with id %d does not exist.", id))
	}
	return nil
}

func ingredientRows(items []types.IngredientAmount) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	return rows
}

// decodeImage reports decode problems on field "image" unless already reported.
func decodeImage(raw string, verr *ValidationError) *validation.Image {
	img, err := validation.DecodeImage(raw)
	if err != nil {
		if _, reported := verr.Fields["image"]; !reported {
			verr.Add("image", err.Error())
		}
		return nil
	}
	return img
}

// Create validates the payload, then inserts the recipe and its ingredient
// lines in one transaction.
func (s *RecipeService) Create(ctx context.Context, viewer Viewer, req *types.RecipeCreateRequest) (*types.RecipeView, error) {
	if !viewer.Authenticated {
		return nil, ErrPermissionDenied
	}

	verr := validate(req)
	if err := s.checkIngredients(ctx, req.Ingredients, verr); err != nil {
		return nil, err
	}
	img := decodeImage(req.Image, verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	key, err := s.images.Save(ctx, recipeImagePrefix, img.Data, img.ContentType, img.Extension)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    viewer.UserID,
		Name:        req.Name,
		ImageKey:    key,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Recipes().Create(ctx, &recipe); err != nil {
			return err
		}
		return tx.Recipes().ReplaceIngredients(ctx, recipe.ID, ingredientRows(req.Ingredients))
	})
	if err != nil {
		discardImage(ctx, s.images, key)
		return nil, s.writeError(err)
	}

	logger.Info(ctx).Uint("recipe_id", recipe.ID).Uint("author_id", viewer.UserID).Msg("recipe created")
	return s.Get(ctx, viewer, recipe.ID)
}

// Update applies a partial update. The ingredients key is mandatory and its
// value fully replaces the stored lines. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, viewer Viewer, id uint, req *types.RecipeUpdateRequest) (*types.RecipeView, error) {
	recipe, err := s.authorized(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	verr := validate(req)
	if req.Ingredients == nil {
		verr.Add("ingredients", "This field is required when updating a recipe.")
	} else if err := s.checkIngredients(ctx, *req.Ingredients, verr); err != nil {
		return nil, err
	}
	var img *validation.Image
	if req.Image != nil {
		img = decodeImage(*req.Image, verr)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	oldKey := recipe.ImageKey
	if img != nil {
		key, err := s.images.Save(ctx, recipeImagePrefix, img.Data, img.ContentType, img.Extension)
		if err != nil {
			return nil, err
		}
		recipe.ImageKey = key
	}
	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}

	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Recipes().UpdateFields(ctx, recipe); err != nil {
			return err
		}
		return tx.Recipes().ReplaceIngredients(ctx, recipe.ID, ingredientRows(*req.Ingredients))
	})
	if err != nil {
		if recipe.ImageKey != oldKey {
			discardImage(ctx, s.images, recipe.ImageKey)
		}
		return nil, s.writeError(err)
	}
	if recipe.ImageKey != oldKey {
		discardImage(ctx, s.images, oldKey)
	}

	return s.Get(ctx, viewer, recipe.ID)
}

// Delete removes the recipe with its ingredient lines, favorites and cart entries.
func (s *RecipeService) Delete(ctx context.Context, viewer Viewer, id uint) error {
	recipe, err := s.authorized(ctx, viewer, id)
	if err != nil {
		return err
	}

	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		return tx.Recipes().Delete(ctx, recipe.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	discardImage(ctx, s.images, recipe.ImageKey)
	logger.Info(ctx).Uint("recipe_id", recipe.ID).Msg("recipe deleted")
	return nil
}

// authorized loads the recipe and checks that the viewer wrote it.
func (s *RecipeService) authorized(ctx context.Context, viewer Viewer, id uint) (*models.Recipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Authenticated || recipe.AuthorID != viewer.UserID {
		return nil, ErrPermissionDenied
	}
	return recipe, nil
}

func (s *RecipeService) load(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.store.Recipes().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) writeError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return NewValidationError("ingredients", "Ingredients must not repeat.")
	}
	return err
}

func (s *RecipeService) Get(ctx context.Context, viewer Viewer, id uint) (*types.RecipeView, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.proj.recipes(ctx, s.store, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns recipes newest first. The favorite and cart filters only
// apply to authenticated viewers.
func (s *RecipeService) List(ctx context.Context, viewer Viewer, q types.RecipeQuery, p pagination.Params) ([]types.RecipeView, int64, error) {
	filter := repository.RecipeFilter{AuthorID: q.AuthorID}
	if viewer.Authenticated {
		uid := viewer.UserID
		if q.IsFavorited {
			filter.FavoritedBy = &uid
		}
		if q.IsInShoppingCart {
			filter.InCartOf = &uid
		}
	}

	recipes, total, err := s.store.Recipes().List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.proj.recipes(ctx, s.store, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ShortLink returns a short link for an existing recipe. The code is random
// and not stored, so the link does not resolve back to the recipe.
func (s *RecipeService) ShortLink(ctx context.Context, id uint) (*types.ShortLink, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	code, err := randomCode(shortCodeLength)
	if err != nil {
		return nil, err
	}
	return &types.ShortLink{ShortLink: s.baseURL + "/recipes/s/" + code}, nil
}

func randomCode(n int) (string, error) {
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		out[i] = shortCodeAlphabet[idx.Int64()]
	}
	return string(out), nil
}
