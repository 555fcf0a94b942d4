package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const TestPassword = "testpassword123"

// PNGPixel is a valid 1x1 PNG as a data URL.
const PNGPixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAACklEQVR4nGMAAQAABQABDQottAAAAABJRU5ErkJggg=="

// CreateTestUser inserts a user whose password is TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Tester",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateTestRecipe inserts a recipe with the given ingredient amounts, keyed by ingredient id.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uint, name string, amounts map[uint]int) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		ImageKey:    "recipes/images/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".png",
		Text:        "Mix everything.",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Ingredients").Create(recipe).Error)

	for ingredientID, amount := range amounts {
		line := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredientID, Amount: amount}
		require.NoError(t, db.Omit("Ingredient").Create(line).Error)
	}
	return recipe
}

// MemoryImageStore keeps images in memory.
type MemoryImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	BaseURL string
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Objects: map[string][]byte{}, BaseURL: "http://testserver/media"}
}

var _ storage.ImageStore = (*MemoryImageStore)(nil)

func (s *MemoryImageStore) Save(_ context.Context, prefix string, data []byte, _ string, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.NewKey(prefix, ext)
	s.Objects[key] = data
	return key, nil
}

func (s *MemoryImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Objects[key]; !ok {
		return fmt.Errorf("no object %q", key)
	}
	delete(s.Objects, key)
	return nil
}

func (s *MemoryImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.BaseURL + "/" + key
}

// Len reports how many images are stored.
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}
