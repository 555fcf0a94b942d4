package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/types"
)

type staticValidator map[string]uint

func (v staticValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	id, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &types.TokenClaims{UserID: id, Username: "user"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	id, ok := CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
}

func serve(t *testing.T, router *gin.Engine, header string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAuthMiddleware(t *testing.T) {
	validator := staticValidator{"good": 7}
	router := gin.New()
	router.GET("/", AuthMiddleware(validator), whoami)

	tests := []struct {
		name   string
		header string
		status int
		detail string
	}{
		{"token scheme", "Token good", http.StatusOK, ""},
		{"bearer scheme", "Bearer good", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authentication credentials were not provided."},
		{"unknown scheme", "Basic good", http.StatusUnauthorized, "Invalid authorization header format."},
		{"no token", "Token", http.StatusUnauthorized, "Invalid authorization header format."},
		{"bad token", "Token bad", http.StatusUnauthorized, "Invalid token."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(t, router, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, body["detail"])
				return
			}
			assert.Equal(t, float64(7), body["user_id"])
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	validator := staticValidator{"good": 7}
	router := gin.New()
	router.GET("/", OptionalAuth(validator), whoami)

	w, body := serve(t, router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["authenticated"])

	w, body = serve(t, router, "Token good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["authenticated"])

	w, _ = serve(t, router, "Token bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAfterOptionalAuth(t *testing.T) {
	calls := 0
	validator := countingValidator{inner: staticValidator{"good": 7}, calls: &calls}
	router := gin.New()
	router.GET("/", OptionalAuth(validator), AuthMiddleware(validator), whoami)

	w, _ := serve(t, router, "Token good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}

type countingValidator struct {
	inner TokenValidator
	calls *int
}

func (v countingValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	*v.calls++
	return v.inner.ValidateToken(ctx, token)
}
