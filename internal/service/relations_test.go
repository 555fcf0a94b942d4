package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFavoriteToggle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	author := testhelpers.CreateTestUser(t, env.db, "chef")
	fan := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "fan").ID)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Soup", nil)

	short, err := env.relations.AddFavorite(ctx, fan, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Soup", short.Name)
	assert.Equal(t, 10, short.CookingTime)

	_, err = env.relations.AddFavorite(ctx, fan, recipe.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.EqualError(t, err, "Recipe is already in favorites.")
	assert.Equal(t, int64(1), env.count(t, &models.Favorite{}))

	require.NoError(t, env.relations.RemoveFavorite(ctx, fan, recipe.ID))

	err = env.relations.RemoveFavorite(ctx, fan, recipe.ID)
	assert.ErrorIs(t, err, service.ErrRelationNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, env.count(t, &models.Favorite{}))
}

func TestRelationsOnMissingRecipe(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	fan := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "fan").ID)

	_, err := env.relations.AddFavorite(ctx, fan, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NotErrorIs(t, err, service.ErrRelationNotFound)

	err = env.relations.RemoveFromCart(ctx, fan, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NotErrorIs(t, err, service.ErrRelationNotFound)
}

func TestCartIsIndependentOfFavorites(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	author := testhelpers.CreateTestUser(t, env.db, "chef")
	fan := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "fan").ID)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Soup", nil)

	_, err := env.relations.AddFavorite(ctx, fan, recipe.ID)
	require.NoError(t, err)
	_, err = env.relations.AddToCart(ctx, fan, recipe.ID)
	require.NoError(t, err)

	view, err := env.recipes.Get(ctx, fan, recipe.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.True(t, view.IsInShoppingCart)

	require.NoError(t, env.relations.RemoveFromCart(ctx, fan, recipe.ID))

	view, err = env.recipes.Get(ctx, fan, recipe.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	anonymous, err := env.recipes.Get(ctx, service.Anonymous(), recipe.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
}

func TestSubscribeToSelfIsRejected(t *testing.T) {
	env := setupEnv(t)
	user := testhelpers.CreateTestUser(t, env.db, "chef")

	_, err := env.relations.Subscribe(context.Background(), service.AuthenticatedAs(user.ID), user.ID, -1)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)
	assert.Zero(t, env.count(t, &models.Subscription{}))
}

func TestSubscribe(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	author := testhelpers.CreateTestUser(t, env.db, "chef")
	reader := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "reader").ID)
	testhelpers.CreateTestRecipe(t, env.db, author.ID, "One", nil)
	two := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Two", nil)
	three := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Three", nil)

	sub, err := env.relations.Subscribe(ctx, reader, author.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, three.ID, sub.Recipes[0].ID)
	assert.Equal(t, two.ID, sub.Recipes[1].ID)

	_, err = env.relations.Subscribe(ctx, reader, author.ID, 2)
	assert.ErrorIs(t, err, service.ErrConflict)

	profile, err := env.users.Get(ctx, reader, author.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	_, err = env.relations.Subscribe(ctx, reader, 999, -1)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	author := testhelpers.CreateTestUser(t, env.db, "chef")
	reader := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "reader").ID)

	err := env.relations.Unsubscribe(ctx, reader, author.ID)
	assert.ErrorIs(t, err, service.ErrRelationNotFound)

	_, err = env.relations.Subscribe(ctx, reader, author.ID, -1)
	require.NoError(t, err)
	require.NoError(t, env.relations.Unsubscribe(ctx, reader, author.ID))
	assert.Zero(t, env.count(t, &models.Subscription{}))
}

func TestSubscriptionsList(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	reader := service.AuthenticatedAs(testhelpers.CreateTestUser(t, env.db, "reader").ID)
	first := testhelpers.CreateTestUser(t, env.db, "alice")
	second := testhelpers.CreateTestUser(t, env.db, "bob")
	testhelpers.CreateTestRecipe(t, env.db, second.ID, "Bread", nil)

	_, err := env.relations.Subscribe(ctx, reader, first.ID, -1)
	require.NoError(t, err)
	_, err = env.relations.Subscribe(ctx, reader, second.ID, -1)
	require.NoError(t, err)

	subs, total, err := env.relations.Subscriptions(ctx, reader, pagination.Params{Page: 1, Limit: 10}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)
	assert.Equal(t, first.ID, subs[0].ID)
	assert.Equal(t, second.ID, subs[1].ID)
	assert.Equal(t, int64(1), subs[1].RecipesCount)
	assert.Empty(t, subs[1].Recipes)

	_, _, err = env.relations.Subscriptions(ctx, service.Anonymous(), pagination.Params{Page: 1, Limit: 10}, -1)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
