package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *jwt.Manager, *fakeBlacklist) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	blacklist := &fakeBlacklist{revoked: map[string]bool{}}
	auth := NewAuthMiddleware(manager, blacklist, "jwt")

	r := gin.New()
	r.GET("/private", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "email": GetEmail(c), "role": GetRole(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, manager, blacklist
}

func issue(t *testing.T, m *jwt.Manager, role string) string {
	t.Helper()
	pair, err := m.GenerateToken("u-1", "reader@example.com", role)
	require.NoError(t, err)
	return pair.AccessToken
}

func do(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

func TestRequireAuth(t *testing.T) {
	r, manager, blacklist := setupAuthRouter(t)
	token := issue(t, manager, user.RoleUser)

	t.Run("Bearer Token", func(t *testing.T) {
		w := do(r, "/private", bearer(token))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	})

	t.Run("Cookie", func(t *testing.T) {
		w := do(r, "/private", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少Token", func(t *testing.T) {
		w := do(r, "/private", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40100`)
	})

	t.Run("格式错误", func(t *testing.T) {
		w := do(r, "/private", func(req *http.Request) { req.Header.Set("Authorization", "Token abc") })
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("签名无效", func(t *testing.T) {
		w := do(r, "/private", bearer(token+"x"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh Token不能访问接口", func(t *testing.T) {
		pair, err := manager.GenerateToken("u-1", "reader@example.com", user.RoleUser)
		require.NoError(t, err)
		w := do(r, "/private", bearer(pair.RefreshToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("已注销", func(t *testing.T) {
		blacklist.revoked[token] = true
		defer delete(blacklist.revoked, token)

		w := do(r, "/private", bearer(token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40103`)
	})

	t.Run("黑名单不可用", func(t *testing.T) {
		blacklist.err = apperrors.ErrRedisError
		defer func() { blacklist.err = nil }()

		w := do(r, "/private", bearer(token))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("黑名单返回非业务错误", func(t *testing.T) {
		blacklist.err = errors.New("dial tcp: refused")
		defer func() { blacklist.err = nil }()

		w := do(r, "/private", bearer(token))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "refused")
	})
}

func TestRequireAdmin(t *testing.T) {
	r, manager, _ := setupAuthRouter(t)

	w := do(r, "/admin", bearer(issue(t, manager, user.RoleUser)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden resource")

	w = do(r, "/admin", bearer(issue(t, manager, user.RoleAdmin)))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
