package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=150"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// IngredientAmount is one line of a recipe write payload.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1,max=32000"`
}

// RecipeCreateRequest is the payload accepted when publishing a recipe.
type RecipeCreateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32000"`
}

// RecipeUpdateRequest is a partial update. A nil field was absent from the
// payload; Ingredients must always be present.
type RecipeUpdateRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients" validate:"omitempty,dive"`
	Image       *string             `json:"image" validate:"omitempty,min=1"`
	Name        *string             `json:"name" validate:"omitempty,min=1,max=256"`
	Text        *string             `json:"text" validate:"omitempty,min=1"`
	CookingTime *int                `json:"cooking_time" validate:"omitempty,min=1,max=32000"`
}

// RecipeQuery carries the list filters of GET /recipes.
type RecipeQuery struct {
	AuthorID         *uint
	IsFavorited      bool
	IsInShoppingCart bool
}
