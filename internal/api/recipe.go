package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/document"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService       service.IRecipeService
	relationService     service.IRelationService
	shoppingListService service.IShoppingListService
	tokens              middleware.TokenValidator
	createLimiter       middleware.Limiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingListService service.IShoppingListService,
	tokens middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		relationService:     relationService,
		shoppingListService: shoppingListService,
		tokens:              tokens,
	}
}

// NewRecipeHandlerWithRateLimit also limits how often one user may publish recipes.
func NewRecipeHandlerWithRateLimit(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingListService service.IShoppingListService,
	tokens middleware.TokenValidator,
	createLimiter middleware.Limiter,
) *RecipeHandler {
	h := NewRecipeHandler(recipeService, relationService, shoppingListService, tokens)
	h.createLimiter = createLimiter
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.tokens)

	create := []gin.HandlerFunc{required}
	if h.createLimiter != nil {
		create = append(create, middleware.RateLimitMiddleware(h.createLimiter))
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuth(h.tokens))
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", required, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", required, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", required, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.RecipeQuery
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": []string{"Enter a valid user id."}})
			return
		}
		author := uint(id)
		q.AuthorID = &author
	}
	q.IsFavorited = flag(c, "is_favorited")
	q.IsInShoppingCart = flag(c, "is_in_shopping_cart")

	p := pageParams(c)
	recipes, total, err := h.recipeService.List(c.Request.Context(), viewer(c), q, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.New(recipes, total, p, absoluteURL(c)))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), viewer(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.RecipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), viewer(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), viewer(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	link, err := h.recipeService.ShortLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

type addRelation func(ctx context.Context, v service.Viewer, recipeID uint) (*types.RecipeShortView, error)

type removeRelation func(ctx context.Context, v service.Viewer, recipeID uint) error

func (h *RecipeHandler) add(c *gin.Context, fn addRelation) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := fn(c.Request.Context(), viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) remove(c *gin.Context, fn removeRelation) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), viewer(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.add(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.remove(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.add(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.relationService.RemoveFromCart)
}

// DownloadShoppingCart sends the aggregated cart as PDF, or as text with ?format=txt.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	renderer := document.ForFormat(c.Query("format"))

	export, err := h.shoppingListService.Export(c.Request.Context(), viewer(c), renderer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
