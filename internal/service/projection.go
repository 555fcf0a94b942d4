package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Viewer is the identity a response is rendered for. The zero value is anonymous.
type Viewer struct {
	UserID        uint
	Authenticated bool
}

func Anonymous() Viewer {
	return Viewer{}
}

func AuthenticatedAs(userID uint) Viewer {
	return Viewer{UserID: userID, Authenticated: true}
}

// projector assembles read views. All loads are batched per call.
type projector struct {
	images storage.ImageStore
}

func (p projector) avatar(u models.User) *string {
	if u.AvatarKey == "" {
		return nil
	}
	url := p.images.URL(u.AvatarKey)
	return &url
}

func (p projector) userView(u models.User, subscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       p.avatar(u),
	}
}

// subscribedTo returns which of authorIDs the viewer follows.
func (p projector) subscribedTo(ctx context.Context, store repository.Store, viewer Viewer, authorIDs []uint) (map[uint]bool, error) {
	if !viewer.Authenticated {
		return map[uint]bool{}, nil
	}
	return store.Relations().Marked(ctx, repository.Subscription, viewer.UserID, authorIDs)
}

func (p projector) users(ctx context.Context, store repository.Store, viewer Viewer, users []models.User) ([]types.UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := p.subscribedTo(ctx, store, viewer, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.UserView, len(users))
	for i, u := range users {
		views[i] = p.userView(u, subscribed[u.ID])
	}
	return views, nil
}

func (p projector) short(r models.Recipe) types.RecipeShortView {
	return types.RecipeShortView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.images.URL(r.ImageKey),
		CookingTime: r.CookingTime,
	}
}

func (p projector) recipes(ctx context.Context, store repository.Store, viewer Viewer, recipes []models.Recipe) ([]types.RecipeView, error) {
	if len(recipes) == 0 {
		return []types.RecipeView{}, nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	seen := map[uint]bool{}
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	authors, err := store.Users().GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := p.subscribedTo(ctx, store, viewer, authorIDs)
	if err != nil {
		return nil, err
	}
	lines, err := store.Recipes().IngredientLines(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	favorited := map[uint]bool{}
	inCart := map[uint]bool{}
	if viewer.Authenticated {
		if favorited, err = store.Relations().Marked(ctx, repository.Favorite, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = store.Relations().Marked(ctx, repository.ShoppingCart, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
	}

	views := make([]types.RecipeView, len(recipes))
	for i, r := range recipes {
		ingredients := lines[r.ID]
		if ingredients == nil {
			ingredients = []types.RecipeIngredientView{}
		}
		views[i] = types.RecipeView{
			ID:               r.ID,
			Author:           p.userView(authors[r.AuthorID], subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            p.images.URL(r.ImageKey),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}
