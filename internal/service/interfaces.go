package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/document"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for user and profile operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisteredUser, error)
	Get(ctx context.Context, viewer Viewer, id uint) (*types.UserView, error)
	List(ctx context.Context, viewer Viewer, p pagination.Params) ([]types.UserView, int64, error)
	SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error
	SetAvatar(ctx context.Context, userID uint, req *types.AvatarRequest) (*types.AvatarView, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

// IIngredientService defines the interface for the ingredient catalogue
type IIngredientService interface {
	Search(ctx context.Context, prefix string) ([]types.IngredientView, error)
	Get(ctx context.Context, id uint) (*types.IngredientView, error)
	Import(ctx context.Context, rows []IngredientRow) (*ImportResult, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, viewer Viewer, req *types.RecipeCreateRequest) (*types.RecipeView, error)
	Update(ctx context.Context, viewer Viewer, id uint, req *types.RecipeUpdateRequest) (*types.RecipeView, error)
	Delete(ctx context.Context, viewer Viewer, id uint) error
	Get(ctx context.Context, viewer Viewer, id uint) (*types.RecipeView, error)
	List(ctx context.Context, viewer Viewer, q types.RecipeQuery, p pagination.Params) ([]types.RecipeView, int64, error)
	ShortLink(ctx context.Context, id uint) (*types.ShortLink, error)
}

// IRelationService defines favorites, shopping cart and subscription toggles
type IRelationService interface {
	AddFavorite(ctx context.Context, viewer Viewer, recipeID uint) (*types.RecipeShortView, error)
	RemoveFavorite(ctx context.Context, viewer Viewer, recipeID uint) error
	AddToCart(ctx context.Context, viewer Viewer, recipeID uint) (*types.RecipeShortView, error)
	RemoveFromCart(ctx context.Context, viewer Viewer, recipeID uint) error
	Subscribe(ctx context.Context, viewer Viewer, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, viewer Viewer, authorID uint) error
	Subscriptions(ctx context.Context, viewer Viewer, p pagination.Params, recipesLimit int) ([]types.SubscriptionView, int64, error)
}

// IShoppingListService defines shopping list aggregation and export
type IShoppingListService interface {
	Items(ctx context.Context, viewer Viewer) ([]types.ShoppingItem, error)
	Export(ctx context.Context, viewer Viewer, renderer document.Renderer) (*Export, error)
}
