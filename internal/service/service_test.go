package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testEnv struct {
	db           *gorm.DB
	store        *repository.GormStore
	images       *testhelpers.MemoryImageStore
	auth         *service.AuthService
	users        *service.UserService
	ingredients  *service.IngredientService
	recipes      *service.RecipeService
	relations    *service.RelationService
	shoppingList *service.ShoppingListService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testhelpers.SetupSQLite(t)
	store := repository.NewGormStore(db)
	images := testhelpers.NewMemoryImageStore()

	tokens, err := service.NewMemoryTokenStore(128)
	require.NoError(t, err)
	ingredients, err := service.NewIngredientService(store, 128)
	require.NoError(t, err)

	return &testEnv{
		db:           db,
		store:        store,
		images:       images,
		auth:         service.NewAuthService(store, tokens, "test-secret", time.Hour),
		users:        service.NewUserService(store, images),
		ingredients:  ingredients,
		recipes:      service.NewRecipeService(store, images, "http://testserver"),
		relations:    service.NewRelationService(store, images),
		shoppingList: service.NewShoppingListService(store),
	}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
