package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/models"
)

func protectedRouter(t *testing.T, issuer *auth.TokenIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", RequireAuth(issuer), func(c *gin.Context) {
		claims := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	router.GET("/admin", RequireAuth(issuer), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func get(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("a", "r", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	router := protectedRouter(t, issuer)

	token, err := issuer.IssueAccess(&models.User{ID: 1, Username: "alice"}, true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(router, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/protected", "garbage").Code)

	w := get(router, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("a", "r", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	router := protectedRouter(t, issuer)

	refresh, err := issuer.IssueRefresh(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(router, "/protected", refresh).Code)
}

func TestRequireAdmin(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("a", "r", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	router := protectedRouter(t, issuer)

	userToken, err := issuer.IssueAccess(&models.User{ID: 1, Username: "alice"}, true)
	require.NoError(t, err)
	adminToken, err := issuer.IssueAccess(&models.User{ID: 2, Username: "root", IsAdmin: true}, true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(router, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, get(router, "/admin", adminToken).Code)
}
