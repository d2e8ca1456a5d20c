package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hors-serie-api/domain"
	"hors-serie-api/services"
)

// fakeAuth resuelve solo el token "valid"
type fakeAuth struct {
	err      error
	resolved []string
}

func (f *fakeAuth) ValidateCredentials(ctx context.Context, username, password string) (domain.User, error) {
	return domain.User{}, services.ErrInvalidCredentials
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (services.LoginResult, error) {
	return services.LoginResult{}, services.ErrInvalidCredentials
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeAuth) Resolve(ctx context.Context, token string) (domain.User, error) {
	f.resolved = append(f.resolved, token)
	if f.err != nil {
		return domain.User{}, f.err
	}
	if token != "valid" {
		return domain.User{}, services.ErrAuthRequired
	}
	return domain.User{ID: "u-1", Username: "luc"}, nil
}

func newProtectedRouter(auth services.AuthService, log logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(auth, "hs_session", log))
	router.GET("/private", RequireAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.Username)
	})
	router.GET("/public", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	return router
}

func serve(router *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "hs_session", Value: cookie})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	log, _ := test.NewNullLogger()
	auth := &fakeAuth{}
	router := newProtectedRouter(auth, log)

	t.Run("sin cookie", func(t *testing.T) {
		rec := serve(router, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"auth_required","message":"Authentication required"}`, rec.Body.String())
	})

	t.Run("token inválido", func(t *testing.T) {
		rec := serve(router, "/private", "forged")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("sesión válida", func(t *testing.T) {
		rec := serve(router, "/private", "valid")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "luc", rec.Body.String())
	})
}

func TestSessionMiddleware_PublicRoutesPassThrough(t *testing.T) {
	log, hook := test.NewNullLogger()
	auth := &fakeAuth{}
	router := newProtectedRouter(auth, log)

	assert.JSONEq(t, `{"authenticated":false}`, serve(router, "/public", "").Body.String())
	assert.JSONEq(t, `{"authenticated":false}`, serve(router, "/public", "forged").Body.String())
	assert.JSONEq(t, `{"authenticated":true}`, serve(router, "/public", "valid").Body.String())

	// Sin cookie no se consulta el servicio
	assert.Equal(t, []string{"forged", "valid"}, auth.resolved)
	// Un token inválido no es un error del servidor
	assert.Empty(t, hook.AllEntries())
}

func TestSessionMiddleware_LogsStoreFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	auth := &fakeAuth{err: errors.New("memcached down")}
	router := newProtectedRouter(auth, log)

	rec := serve(router, "/private", "valid")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS("http://localhost:5173"))
	router.POST("/api/contacts", func(c *gin.Context) { c.Status(http.StatusCreated) })

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})

	t.Run("otro origen", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("comodín", func(t *testing.T) {
		open := gin.New()
		open.Use(CORS("*"))
		open.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://anywhere.test")
		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, req)

		assert.Equal(t, "http://anywhere.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	router := gin.New()
	router.Use(RequestLogger(log))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, "/ok", "")
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 200, hook.LastEntry().Data["status"])

	serve(router, "/boom", "")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "/boom", hook.LastEntry().Data["path"])
}
