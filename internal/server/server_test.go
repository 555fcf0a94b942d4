package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func newTestServer(t *testing.T, mediaRoot string) *Server {
	t.Helper()
	t.Setenv("ENV", "test")

	db := testhelpers.SetupSQLite(t)
	store := repository.NewGormStore(db)
	images := testhelpers.NewMemoryImageStore()
	tokens, err := service.NewMemoryTokenStore(16)
	require.NoError(t, err)
	ingredients, err := service.NewIngredientService(store, 16)
	require.NoError(t, err)

	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "0",
		MediaURL:    "/media",
		CORSOrigins: []string{"http://frontend.test"},
	}
	return New(cfg, db, api.Services{
		Auth:         service.NewAuthService(store, tokens, "test-secret", time.Hour),
		Users:        service.NewUserService(store, images),
		Ingredients:  ingredients,
		Recipes:      service.NewRecipeService(store, images, "http://testserver"),
		Relations:    service.NewRelationService(store, images),
		ShoppingList: service.NewShoppingListService(store),
	}, Options{MediaRoot: mediaRoot})
}

func TestNew(t *testing.T) {
	s := newTestServer(t, "")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://frontend.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestServesMedia(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "recipes", "soup.txt"), []byte("soup"), 0o644))
	s := newTestServer(t, root)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/recipes/soup.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "soup", w.Body.String())
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
