package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/document"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListService aggregates a user's cart into one list of ingredients.
type ShoppingListService struct {
	store repository.Store
}

func NewShoppingListService(store repository.Store) *ShoppingListService {
	return &ShoppingListService{store: store}
}

var _ IShoppingListService = (*ShoppingListService)(nil)

// Items sums amounts over every recipe in the cart, grouped by (name, unit)
// and ordered by name.
func (s *ShoppingListService) Items(ctx context.Context, viewer Viewer) ([]types.ShoppingItem, error) {
	if !viewer.Authenticated {
		return nil, ErrPermissionDenied
	}
	items, err := s.store.Recipes().ShoppingList(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []types.ShoppingItem{}
	}
	return items, nil
}

// Export is a rendered shopping list.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (s *ShoppingListService) Export(ctx context.Context, viewer Viewer, renderer document.Renderer) (*Export, error) {
	items, err := s.Items(ctx, viewer)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, user.DisplayName(), items); err != nil {
		return nil, err
	}
	return &Export{
		Filename:    renderer.Filename(),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
