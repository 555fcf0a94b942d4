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
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ann",
		LastName:  "Baker",
		Password:  "s3cret-pass",
	}
}

func TestRegister(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, registerRequest("ann"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ann@example.com", user.Email)

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, service.CheckPassword(stored.PasswordHash, "s3cret-pass"))
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	testhelpers.CreateTestUser(t, env.db, "taken")

	t.Run("duplicate email", func(t *testing.T) {
		req := registerRequest("fresh")
		req.Email = "taken@example.com"
		_, err := env.users.Register(ctx, req)
		requireValidation(t, err, "email")
	})

	t.Run("duplicate username", func(t *testing.T) {
		req := registerRequest("taken")
		req.Email = "other@example.com"
		_, err := env.users.Register(ctx, req)
		requireValidation(t, err, "username")
	})

	t.Run("reserved username", func(t *testing.T) {
		_, err := env.users.Register(ctx, registerRequest("me"))
		requireValidation(t, err, "username")
	})

	t.Run("bad username characters", func(t *testing.T) {
		req := registerRequest("ann")
		req.Username = "ann smith!"
		_, err := env.users.Register(ctx, req)
		requireValidation(t, err, "username")
	})

	t.Run("missing names", func(t *testing.T) {
		req := registerRequest("nameless")
		req.FirstName = ""
		req.LastName = ""
		_, err := env.users.Register(ctx, req)
		verr := requireValidation(t, err, "first_name")
		assert.Contains(t, verr.Fields, "last_name")
	})

	assert.Equal(t, int64(1), env.count(t, &models.User{}))
}

func TestListUsers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	for _, name := range []string{"carol", "alice", "bob"} {
		testhelpers.CreateTestUser(t, env.db, name)
	}

	users, total, err := env.users.List(ctx, service.Anonymous(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Nil(t, users[0].Avatar)
}

func TestGetMissingUser(t *testing.T) {
	env := setupEnv(t)

	_, err := env.users.Get(context.Background(), service.Anonymous(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSetPassword(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, env.db, "ann")

	err := env.users.SetPassword(ctx, user.ID, &types.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	})
	requireValidation(t, err, "current_password")

	require.NoError(t, env.users.SetPassword(ctx, user.ID, &types.SetPasswordRequest{
		CurrentPassword: testhelpers.TestPassword,
		NewPassword:     "brand-new-pass",
	}))

	_, err = env.auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: testhelpers.TestPassword})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestAvatarLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, env.db, "ann")

	first, err := env.users.SetAvatar(ctx, user.ID, &types.AvatarRequest{Avatar: testhelpers.PNGPixel})
	require.NoError(t, err)
	assert.Regexp(t, `^http://testserver/media/users/.+\.png$`, first.Avatar)
	assert.Equal(t, 1, env.images.Len())

	second, err := env.users.SetAvatar(ctx, user.ID, &types.AvatarRequest{Avatar: testhelpers.PNGPixel})
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.Equal(t, 1, env.images.Len())

	view, err := env.users.Get(ctx, service.AuthenticatedAs(user.ID), user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Avatar)
	assert.Equal(t, second.Avatar, *view.Avatar)

	require.NoError(t, env.users.DeleteAvatar(ctx, user.ID))
	assert.Zero(t, env.images.Len())

	view, err = env.users.Get(ctx, service.AuthenticatedAs(user.ID), user.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Avatar)
}

func TestSetAvatarRejectsGarbage(t *testing.T) {
	env := setupEnv(t)
	user := testhelpers.CreateTestUser(t, env.db, "ann")

	_, err := env.users.SetAvatar(context.Background(), user.ID, &types.AvatarRequest{Avatar: "not an image"})
	requireValidation(t, err, "avatar")
	assert.Zero(t, env.images.Len())
}
