package validation

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/types"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestValidateStructUsesJSONFieldNames(t *testing.T) {
	req := types.RecipeCreateRequest{
		Ingredients: []types.IngredientAmount{{ID: 1, Amount: 0}},
		Image:       "x",
		Name:        "Soup",
		Text:        "Boil",
		CookingTime: 32001,
	}

	errs := ValidateStruct(&req)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, errs["ingredients[0].amount"])
	assert.Equal(t, []string{"Ensure this value is less than or equal to 32000."}, errs["cooking_time"])
}

func TestValidateStructBoundaries(t *testing.T) {
	for _, amount := range []int{1, 32000} {
		req := types.RecipeCreateRequest{
			Ingredients: []types.IngredientAmount{{ID: 1, Amount: amount}},
			Image:       "x",
			Name:        "Soup",
			Text:        "Boil",
			CookingTime: amount,
		}
		assert.Nil(t, ValidateStruct(&req), "amount %d", amount)
	}
}

func TestValidateStructEmptyIngredients(t *testing.T) {
	req := types.RecipeCreateRequest{
		Ingredients: []types.IngredientAmount{},
		Image:       "x",
		Name:        "Soup",
		Text:        "Boil",
		CookingTime: 10,
	}

	errs := ValidateStruct(&req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "ingredients")
}

func TestUsernameRule(t *testing.T) {
	valid := types.RegisterRequest{
		Email: "cook@example.com", Username: "chef.bob+1@home", FirstName: "Bob", LastName: "Cook", Password: "secret-pass",
	}
	assert.Nil(t, ValidateStruct(&valid))

	invalid := valid
	invalid.Username = "chef bob!"
	errs := ValidateStruct(&invalid)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "username")
}

func TestDecodeImage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngPixel)

	t.Run("data url", func(t *testing.T) {
		img, err := DecodeImage("data:image/png;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, ".png", img.Extension)
		assert.Equal(t, pngPixel, img.Data)
	})

	t.Run("bare base64", func(t *testing.T) {
		img, err := DecodeImage(encoded)
		require.NoError(t, err)
		assert.Equal(t, ".png", img.Extension)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeImage("data:image/png;base64,@@@")
		assert.ErrorIs(t, err, ErrImageEncoding)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := DecodeImage(base64.StdEncoding.EncodeToString([]byte("plain text content")))
		assert.ErrorIs(t, err, ErrImageEncoding)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeImage("  ")
		assert.ErrorIs(t, err, ErrImageEmpty)
	})
}
