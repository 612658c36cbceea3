package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/session"
)

type resolverMock struct {
	sess      *models.Session
	err       error
	lastToken string
	called    bool
}

func (m *resolverMock) Resolve(_ context.Context, token string) (*models.Session, error) {
	m.called = true
	m.lastToken = token
	return m.sess, m.err
}

func guardedRouter(resolver *resolverMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/students", SessionGuard(resolver, "unireg_session"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reached": true})
	})
	return r
}

func TestSessionGuardMissingToken(t *testing.T) {
	resolver := &resolverMock{}
	r := guardedRouter(resolver)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/students", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.False(t, resolver.called, "no resolve attempt without a token")
}

func TestSessionGuardRejectedToken(t *testing.T) {
	resolver := &resolverMock{err: session.ErrSessionNotFound}
	r := guardedRouter(resolver)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/students", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.Equal(t, "stale-token", resolver.lastToken)
}

func TestSessionGuardBearerHeader(t *testing.T) {
	resolver := &resolverMock{sess: &models.Session{ID: "s1", User: models.SessionUser{ID: "7"}}}
	r := guardedRouter(resolver)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/students", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "good-token", resolver.lastToken)
}

func TestSessionGuardCookieFallback(t *testing.T) {
	resolver := &resolverMock{sess: &models.Session{ID: "s1"}}
	r := guardedRouter(resolver)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/students", nil)
	req.AddCookie(&http.Cookie{Name: "unireg_session", Value: "cookie-token"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", resolver.lastToken)
}

func TestSessionTokenHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.Empty(t, SessionToken(c))
	c.Set(contextTokenKey, "tok")
	assert.Equal(t, "tok", SessionToken(c))
}
