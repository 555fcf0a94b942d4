package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

type relationMessages struct {
	present string
	absent  string
}

var messages = map[repository.Relation]relationMessages{
	repository.Favorite: {
		present: "Recipe is already in favorites.",
		absent:  "Recipe is not in favorites.",
	},
	repository.ShoppingCart: {
		present: "Recipe is already in the shopping cart.",
		absent:  "Recipe is not in the shopping cart.",
	},
	repository.Subscription: {
		present: "You are already subscribed to this author.",
		absent:  "You are not subscribed to this author.",
	},
}

// RelationService adds and removes favorites, cart entries and subscriptions.
// Adding an existing pair or removing a missing one is an error, not a no-op.
type RelationService struct {
	store repository.Store
	proj  projector
}

func NewRelationService(store repository.Store, images storage.ImageStore) *RelationService {
	return &RelationService{store: store, proj: projector{images: images}}
}

var _ IRelationService = (*RelationService)(nil)

// add inserts (subject, object) unless it is already stored.
func (s *RelationService) add(ctx context.Context, kind repository.Relation, subject, object uint) error {
	conflict := &relationError{kind: ErrConflict, msg: messages[kind].present}
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		exists, err := tx.Relations().Exists(ctx, kind, subject, object)
		if err != nil {
			return err
		}
		if exists {
			return conflict
		}
		if err := tx.Relations().Add(ctx, kind, subject, object); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflict
			}
			return err
		}
		return nil
	})
}

func (s *RelationService) remove(ctx context.Context, kind repository.Relation, subject, object uint) error {
	removed, err := s.store.Relations().Remove(ctx, kind, subject, object)
	if err != nil {
		return err
	}
	if !removed {
		return &relationError{kind: ErrRelationNotFound, msg: messages[kind].absent}
	}
	return nil
}

func (s *RelationService) recipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.store.Recipes().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RelationService) addRecipe(ctx context.Context, viewer Viewer, kind repository.Relation, recipeID uint) (*types.RecipeShortView, error) {
	if !viewer.Authenticated {
		return nil, ErrPermissionDenied
	}
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.add(ctx, kind, viewer.UserID, recipe.ID); err != nil {
		return nil, err
	}
	view := s.proj.short(*recipe)
	return &view, nil
}

func (s *RelationService) removeRecipe(ctx context.Context, viewer Viewer, kind repository.Relation, recipeID uint) error {
	if !viewer.Authenticated {
		return ErrPermissionDenied
	}
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}
	return s.remove(ctx, kind, viewer.UserID, recipeID)
}

func (s *RelationService) AddFavorite(ctx context.Context, viewer Viewer, recipeID uint) (*types.RecipeShortView, error) {
	return s.addRecipe(ctx, viewer, repository.Favorite, recipeID)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, viewer Viewer, recipeID uint) error {
	return s.removeRecipe(ctx, viewer, repository.Favorite, recipeID)
}

func (s *RelationService) AddToCart(ctx context.Context, viewer Viewer, recipeID uint) (*types.RecipeShortView, error) {
	return s.addRecipe(ctx, viewer, repository.ShoppingCart, recipeID)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, viewer Viewer, recipeID uint) error {
	return s.removeRecipe(ctx, viewer, repository.ShoppingCart, recipeID)
}

// Subscribe makes the viewer follow authorID. Self-subscription is rejected
// before anything is looked up.
func (s *RelationService) Subscribe(ctx context.Context, viewer Viewer, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	if !viewer.Authenticated {
		return nil, ErrPermissionDenied
	}
	if viewer.UserID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.store.Users().GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.add(ctx, repository.Subscription, viewer.UserID, authorID); err != nil {
		return nil, err
	}

	views, err := s.subscriptionViews(ctx, viewer, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RelationService) Unsubscribe(ctx context.Context, viewer Viewer, authorID uint) error {
	if !viewer.Authenticated {
		return ErrPermissionDenied
	}
	if _, err := s.store.Users().GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.remove(ctx, repository.Subscription, viewer.UserID, authorID)
}

// Subscriptions lists the authors the viewer follows, oldest subscription first.
func (s *RelationService) Subscriptions(ctx context.Context, viewer Viewer, p pagination.Params, recipesLimit int) ([]types.SubscriptionView, int64, error) {
	if !viewer.Authenticated {
		return nil, 0, ErrPermissionDenied
	}

	ids, total, err := s.store.Relations().Objects(ctx, repository.Subscription, viewer.UserID, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	byID, err := s.store.Users().GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	authors := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			authors = append(authors, u)
		}
	}

	views, err := s.subscriptionViews(ctx, viewer, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// subscriptionViews renders authors with their newest recipes. A negative
// recipesLimit includes every recipe.
func (s *RelationService) subscriptionViews(ctx context.Context, viewer Viewer, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	userViews, err := s.proj.users(ctx, s.store, viewer, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.store.Recipes().CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionView, len(authors))
	for i, a := range authors {
		recipes, err := s.store.Recipes().ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]types.RecipeShortView, len(recipes))
		for j, r := range recipes {
			short[j] = s.proj.short(r)
		}
		views[i] = types.SubscriptionView{
			UserView:     userViews[i],
			Recipes:      short,
			RecipesCount: counts[a.ID],
		}
	}
	return views, nil
}
