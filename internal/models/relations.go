package models

import "time"

// Favorite marks a recipe for a user, at most once per pair.
type Favorite struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorites_user_recipe;index"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart has the shape of Favorite but is a separate namespace.
type ShoppingCart struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_carts_user_recipe"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_carts_user_recipe;index"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription links a subscriber (UserID) to an author. Self-subscription
// is rejected by a check constraint.
type Subscription struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_author;check:chk_subscriptions_no_self,user_id <> author_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_author;index"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// All lists every model in dependency order for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}
