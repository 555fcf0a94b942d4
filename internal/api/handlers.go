package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services are the dependencies of the HTTP handlers.
type Services struct {
	Auth         service.IAuthService
	Users        service.IUserService
	Ingredients  service.IIngredientService
	Recipes      service.IRecipeService
	Relations    service.IRelationService
	ShoppingList service.IShoppingListService

	// RecipeCreateLimiter is optional; nil disables the limit.
	RecipeCreateLimiter middleware.Limiter
}

// HealthHandler reports whether the API can reach its database
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := database.HealthCheck(c.Request.Context(), h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
	})
}

// RegisterRoutes registers all API routes under /api
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc Services) {
	router.GET("/health", NewHealthHandler(db).HealthCheck)

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users, svc.Relations, svc.Auth)
	ingredientHandler := NewIngredientHandler(svc.Ingredients)
	recipeHandler := NewRecipeHandler(svc.Recipes, svc.Relations, svc.ShoppingList, svc.Auth)
	if svc.RecipeCreateLimiter != nil {
		recipeHandler = NewRecipeHandlerWithRateLimit(svc.Recipes, svc.Relations, svc.ShoppingList, svc.Auth, svc.RecipeCreateLimiter)
	}

	group := router.Group("/api")
	authHandler.RegisterRoutes(group)
	userHandler.RegisterRoutes(group)
	ingredientHandler.RegisterRoutes(group)
	recipeHandler.RegisterRoutes(group)
}
