package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/author"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

const missingID = "00000000-0000-4000-8000-000000000000"

// testEnv 完整装配的应用：SQLite内存库 + miniredis
type testEnv struct {
	t      *testing.T
	engine *gin.Engine

	adminToken  string
	readerToken string
	readerID    string
	authorID    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode, BasePath: "/api", EnableSwagger: true},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	db, err := rdb.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, rdb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := redis.NewSessionStore(client)

	log := zap.NewNop()
	jwtManager := jwt.NewManager("router-test-secret", time.Hour, 24*time.Hour)

	userService := user.NewService(rdb.NewUserRepository(db), user.Policy{
		AdminEmails: []string{"admin@example.com"},
		BcryptCost:  bcrypt.MinCost,
	})
	bookService := book.NewService(rdb.NewBookRepository(db), rdb.NewTxManager(db), mq.NopPublisher{}, log)
	authorService := author.NewService(rdb.NewAuthorRepository(db))

	h := Handlers{
		Book:   handler.NewBookHandler(bookService),
		Author: handler.NewAuthorHandler(authorService),
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions, 24*time.Hour, log),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewRefreshUseCase(userService, jwtManager),
			handler.CookieOptions{Name: "jwt", MaxAge: time.Hour},
		),
		Guard: middleware.NewAuthMiddleware(jwtManager, sessions, "jwt"),
	}

	env := &testEnv{t: t, engine: New(cfg, log, h)}
	env.seed()
	return env
}

// seed 注册管理员与普通用户，由管理员创建一个作者
func (e *testEnv) seed() {
	e.register("admin@example.com", "Admin")
	e.adminToken = e.login("admin@example.com")

	e.readerID = e.register("reader@example.com", "Reader")
	e.readerToken = e.login("reader@example.com")

	w := e.call(http.MethodPost, "/api/authors", map[string]interface{}{"name": "Ursula K. Le Guin"}, e.adminToken)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	e.authorID = decode(e.t, w)["id"].(string)
}

func (e *testEnv) register(email, name string) string {
	w := e.call(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email": email, "password": "passw0rd", "name": name,
	}, "")
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(e.t, w)["id"].(string)
}

func (e *testEnv) login(email string) string {
	w := e.call(http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email": email, "password": "passw0rd",
	}, "")
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return decode(e.t, w)["accessToken"].(string)
}

func (e *testEnv) call(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) bookBody(title string) map[string]interface{} {
	return map[string]interface{}{"title": title, "rating": 3, "price": 10, "authorId": e.authorID}
}

func (e *testEnv) createBook(title string) string {
	e.t.Helper()
	w := e.call(http.MethodPost, "/api/books", e.bookBody(title), e.readerToken)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(e.t, w)["id"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestBooks_CreateAndGet(t *testing.T) {
	e := newTestEnv(t)

	w := e.call(http.MethodPost, "/api/books", e.bookBody("ab"), e.readerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title must be longer than or equal to 3 characters")

	id := e.createBook("Valid Title")
	assert.Len(t, id, 36)

	w = e.call(http.MethodGet, "/api/books/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Valid Title", got["title"])
	assert.EqualValues(t, 3, got["rating"])
	assert.EqualValues(t, 10, got["price"])
	assert.Equal(t, e.authorID, got["authorId"])
	assert.Equal(t, "Ursula K. Le Guin", got["author"].(map[string]interface{})["name"])
	assert.Equal(t, []interface{}{}, got["likedBy"])

	w = e.call(http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])
}

func TestBooks_EmptyListIsArray(t *testing.T) {
	e := newTestEnv(t)
	w := e.call(http.MethodGet, "/api/books", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestBooks_CreateFailures(t *testing.T) {
	e := newTestEnv(t)
	e.createBook("Unique Title")

	t.Run("未登录", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/books", e.bookBody("Another"), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("书名重复", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/books", e.bookBody("Unique Title"), e.readerToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Name is already taken", decode(t, w)["message"])

		w = e.call(http.MethodGet, "/api/books", nil, "")
		assert.Equal(t, 1, strings.Count(w.Body.String(), `"title":"Unique Title"`))
	})

	t.Run("作者不存在", func(t *testing.T) {
		body := e.bookBody("Orphan Book")
		body["authorId"] = missingID
		w := e.call(http.MethodPost, "/api/books", body, e.readerToken)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		w = e.call(http.MethodGet, "/api/books", nil, "")
		assert.NotContains(t, w.Body.String(), "Orphan Book")
	})

	t.Run("校验逐项独立", func(t *testing.T) {
		for field, value := range map[string]interface{}{
			"rating": 0, "price": 1001, "title": strings.Repeat("x", 101),
		} {
			body := e.bookBody("Checked Title")
			body[field] = value
			w := e.call(http.MethodPost, "/api/books", body, e.readerToken)
			assert.Equal(t, http.StatusBadRequest, w.Code, field)
			assert.Len(t, decode(t, w)["details"], 1, field)
		}
	})

	t.Run("请求体格式错误", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/books", `{"title":`, e.readerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.EqualValues(t, 40001, decode(t, w)["code"])
	})
}

func TestBooks_GetMissing(t *testing.T) {
	e := newTestEnv(t)

	w := e.call(http.MethodGet, "/api/books/"+missingID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book with id "+missingID+" not found", decode(t, w)["message"])

	w = e.call(http.MethodGet, "/api/books/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_Update(t *testing.T) {
	e := newTestEnv(t)
	id := e.createBook("Before Update")

	w := e.call(http.MethodPost, "/api/authors", map[string]interface{}{"name": "Virgil"}, e.adminToken)
	require.Equal(t, http.StatusCreated, w.Code)
	otherAuthor := decode(t, w)["id"].(string)

	body := map[string]interface{}{"title": "After Update", "rating": 5, "price": 0, "authorId": otherAuthor}
	w = e.call(http.MethodPut, "/api/books/"+id, body, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Book with id "+id+" has been updated", decode(t, w)["message"])

	w = e.call(http.MethodGet, "/api/books/"+id, nil, "")
	got := decode(t, w)
	assert.Equal(t, "After Update", got["title"])
	assert.EqualValues(t, 5, got["rating"])
	assert.EqualValues(t, 0, got["price"])
	assert.Equal(t, otherAuthor, got["authorId"])

	t.Run("ID不是UUID", func(t *testing.T) {
		w := e.call(http.MethodPut, "/api/books/123", body, e.readerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed (uuid is expected)", decode(t, w)["message"])
	})

	t.Run("不存在", func(t *testing.T) {
		w := e.call(http.MethodPut, "/api/books/"+missingID, body, e.readerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("不存在且请求体非法", func(t *testing.T) {
		// 先校验请求体，再检查存在性
		w := e.call(http.MethodPut, "/api/books/"+missingID, map[string]interface{}{"title": "ab"}, e.readerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.EqualValues(t, 40002, decode(t, w)["code"])
	})

	t.Run("缺少字段", func(t *testing.T) {
		w := e.call(http.MethodPut, "/api/books/"+id, map[string]interface{}{"title": "Partial"}, e.readerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooks_Delete(t *testing.T) {
	e := newTestEnv(t)
	id := e.createBook("Doomed Book")

	w := e.call(http.MethodPost, "/api/books/like", map[string]interface{}{"bookId": id, "userId": e.readerID}, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.call(http.MethodDelete, "/api/books/"+id, nil, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order with id "+id+" has been deleted", decode(t, w)["message"])

	w = e.call(http.MethodGet, "/api/books/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.call(http.MethodDelete, "/api/books/"+id, nil, e.readerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_Like(t *testing.T) {
	e := newTestEnv(t)
	id := e.createBook("Liked Book")

	w := e.call(http.MethodPost, "/api/books/like", map[string]interface{}{"bookId": id, "userId": e.readerID}, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []interface{}{e.readerID}, decode(t, w)["likedBy"])

	// 重复点赞追加记录
	w = e.call(http.MethodPost, "/api/books/like", map[string]interface{}{"bookId": id, "userId": e.readerID}, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["likedBy"], 2)

	for name, body := range map[string]map[string]interface{}{
		"图书不存在": {"bookId": missingID, "userId": e.readerID},
		"用户不存在": {"bookId": id, "userId": missingID},
	} {
		w := e.call(http.MethodPost, "/api/books/like", body, e.readerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Equal(t, "Book or user don't exist", decode(t, w)["message"], name)
	}

	w = e.call(http.MethodPost, "/api/books/like", map[string]interface{}{"bookId": "nope", "userId": e.readerID}, e.readerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bookId must be a UUID")

	// 大写UUID与路径参数规则一致
	w = e.call(http.MethodPost, "/api/books/like", map[string]interface{}{"bookId": strings.ToUpper(id), "userId": strings.ToUpper(e.readerID)}, e.readerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["likedBy"], 3)
}

func TestAuthors_AdminOnly(t *testing.T) {
	e := newTestEnv(t)

	w := e.call(http.MethodPost, "/api/authors", map[string]interface{}{"name": "Nobody"}, e.readerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.call(http.MethodGet, "/api/authors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ursula K. Le Guin")

	w = e.call(http.MethodGet, "/api/authors/"+e.authorID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.call(http.MethodGet, "/api/authors/"+missingID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_Flow(t *testing.T) {
	e := newTestEnv(t)

	t.Run("当前用户", func(t *testing.T) {
		w := e.call(http.MethodGet, "/api/auth/me", nil, e.adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", decode(t, w)["role"])
	})

	t.Run("邮箱重复", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/auth/register", map[string]interface{}{
			"email": "reader@example.com", "password": "passw0rd", "name": "Again",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("密码错误", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/auth/login", map[string]interface{}{
			"email": "reader@example.com", "password": "wrong-pass1",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("登录写入Cookie", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/auth/login", map[string]interface{}{
			"email": "reader@example.com", "password": "passw0rd",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "jwt", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		e.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("刷新Token", func(t *testing.T) {
		w := e.call(http.MethodPost, "/api/auth/login", map[string]interface{}{
			"email": "reader@example.com", "password": "passw0rd",
		}, "")
		refresh := decode(t, w)["refreshToken"].(string)

		w = e.call(http.MethodPost, "/api/auth/refresh", map[string]interface{}{"refreshToken": refresh}, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode(t, w)["accessToken"])

		w = e.call(http.MethodPost, "/api/auth/refresh", map[string]interface{}{"refreshToken": e.readerToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		token := e.login("reader@example.com")

		w := e.call(http.MethodDelete, "/api/auth/logout", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = e.call(http.MethodGet, "/api/auth/me", nil, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.EqualValues(t, 40103, decode(t, w)["code"])
	})
}

func TestOperationalEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.call(http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.call(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = e.call(http.MethodGet, "/swagger/doc.json", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/books/like")
}

func TestRoutes_SingleTable(t *testing.T) {
	e := newTestEnv(t)
	seen := map[string]bool{}
	for _, r := range e.engine.Routes() {
		key := r.Method + " " + r.Path
		assert.False(t, seen[key], key)
		seen[key] = true
	}
	for _, want := range []string{
		"GET /api/books", "GET /api/books/:id", "POST /api/books",
		"POST /api/books/like", "PUT /api/books/:id", "DELETE /api/books/:id",
	} {
		assert.True(t, seen[want], want)
	}
}
