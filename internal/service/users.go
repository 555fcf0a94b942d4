package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

const avatarPrefix = "users"

// UserService handles registration, profiles and avatars.
type UserService struct {
	store  repository.Store
	images storage.ImageStore
	proj   projector
}

func NewUserService(store repository.Store, images storage.ImageStore) *UserService {
	return &UserService{store: store, images: images, proj: projector{images: images}}
}

var _ IUserService = (*UserService)(nil)

func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisteredUser, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	verr := validate(req)
	if strings.EqualFold(req.Username, "me") {
		verr.Add("username", "This username is reserved.")
	}

	users := s.store.Users()
	if _, bad := verr.Fields["email"]; !bad {
		exists, err := users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("email", "A user with that email already exists.")
		}
	}
	if _, bad := verr.Fields["username"]; !bad {
		exists, err := users.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("non_field_errors", "A user with that email or username already exists.")
		}
		return nil, err
	}

	logger.Info(ctx).Uint("user_id", user.ID).Msg("user registered")
	return &types.RegisteredUser{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *UserService) Get(ctx context.Context, viewer Viewer, id uint) (*types.UserView, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	views, err := s.proj.users(ctx, s.store, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *UserService) List(ctx context.Context, viewer Viewer, p pagination.Params) ([]types.UserView, int64, error) {
	users, total, err := s.store.Users().List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.proj.users(ctx, s.store, viewer, users)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *UserService) SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error {
	if verr := validate(req); verr.Err() != nil {
		return verr
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return NewValidationError("current_password", "Invalid password.")
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.store.Users().UpdatePassword(ctx, userID, hash)
}

// SetAvatar stores a new avatar and drops the previous file.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, req *types.AvatarRequest) (*types.AvatarView, error) {
	if verr := validate(req); verr.Err() != nil {
		return nil, verr
	}
	img, err := validation.DecodeImage(req.Avatar)
	if err != nil {
		return nil, NewValidationError("avatar", err.Error())
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	key, err := s.images.Save(ctx, avatarPrefix, img.Data, img.ContentType, img.Extension)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdateAvatar(ctx, userID, key); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	s.discard(ctx, user.AvatarKey)

	return &types.AvatarView{Avatar: s.images.URL(key)}, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.Users().UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.discard(ctx, user.AvatarKey)
	return nil
}

// discard deletes a stored image, logging failures.
func (s *UserService) discard(ctx context.Context, key string) {
	discardImage(ctx, s.images, key)
}

func discardImage(ctx context.Context, images storage.ImageStore, key string) {
	if key == "" {
		return
	}
	if err := images.Delete(ctx, key); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("failed to delete stored image")
	}
}
