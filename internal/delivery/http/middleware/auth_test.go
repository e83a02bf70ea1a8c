package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, roles ...string) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	m := NewAuthMiddleware(tokens)

	r := gin.New()
	r.Use(RequestID())
	handlers := []gin.HandlerFunc{m.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"/"+c.GetString(ContextUserRole))
	})
	r.GET("/", handlers...)
	return r, tokens
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, tokens := newEngine(t)
	tok, _, err := tokens.Issue("u1", domain.RoleOwner)
	require.NoError(t, err)

	w := call(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/owner", w.Body.String())

	w = call(r, "bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, header := range []string{"", "Bearer", "Token " + tok, "Bearer not-a-jwt"} {
		w = call(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	}
}

func TestRequireRole(t *testing.T) {
	r, tokens := newEngine(t, domain.RoleSitter)

	sitter, _, err := tokens.Issue("s1", domain.RoleSitter)
	require.NoError(t, err)
	owner, _, err := tokens.Issue("o1", domain.RoleOwner)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(r, "Bearer "+sitter).Code)

	w := call(r, "Bearer "+owner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := call(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"internal_error"`)
}
