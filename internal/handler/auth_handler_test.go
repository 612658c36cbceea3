package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/service"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

type accountServiceMock struct {
	result  *service.RegisterResult
	err     error
	lastReq models.RegisterRequest
	called  bool
}

func (m *accountServiceMock) Register(_ context.Context, req models.RegisterRequest) (*service.RegisterResult, error) {
	m.called = true
	m.lastReq = req
	return m.result, m.err
}

type authServiceMock struct {
	loginResp *models.LoginResponse
	loginErr  error
	logoutErr error

	lastLogin  models.LoginRequest
	lastLogout string
}

func (m *authServiceMock) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	return m.loginResp, m.loginErr
}

func (m *authServiceMock) Logout(_ context.Context, token string) error {
	m.lastLogout = token
	return m.logoutErr
}

func newAuthContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandlerRegisterSuccess(t *testing.T) {
	accounts := &accountServiceMock{result: &service.RegisterResult{
		Message: "Registration successful",
		User:    json.RawMessage(`{"id":9,"username":"ana"}`),
	}}
	h := NewAuthHandler(accounts, &authServiceMock{}, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/register", []byte(`{"username":"ana","email":"ana@example.com","password":"secret"}`))
	h.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Registration successful","user":{"id":9,"username":"ana"}}`, w.Body.String())
	assert.Equal(t, "ana", accounts.lastReq.Username)
}

func TestAuthHandlerRegisterMissingFields(t *testing.T) {
	accounts := &accountServiceMock{err: appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "Username, email, and password are required")}
	h := NewAuthHandler(accounts, &authServiceMock{}, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/register", []byte(`{"username":"ana"}`))
	h.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Username, email, and password are required"}`, w.Body.String())
}

func TestAuthHandlerRegisterMalformedJSON(t *testing.T) {
	accounts := &accountServiceMock{}
	h := NewAuthHandler(accounts, &authServiceMock{}, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/register", []byte(`{"username"`))
	h.Register(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	assert.False(t, accounts.called)
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	auth := &authServiceMock{loginResp: &models.LoginResponse{
		User:         models.AccountUser{ID: 7, Username: "ana"},
		Role:         "student",
		SessionToken: "signed-session",
		ExpiresAt:    "2026-09-01T12:00:00Z",
	}}
	h := NewAuthHandler(&accountServiceMock{}, auth, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/login", []byte(`{"email":"ana@example.com","password":"secret"}`))
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-session", resp.SessionToken)
	assert.Equal(t, "student", resp.Role)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "unireg_session", cookies[0].Name)
	assert.Equal(t, "signed-session", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	auth := &authServiceMock{loginErr: appErrors.New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password")}
	h := NewAuthHandler(&accountServiceMock{}, auth, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/login", []byte(`{"email":"ana@example.com","password":"wrong"}`))
	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerLogout(t *testing.T) {
	auth := &authServiceMock{}
	h := NewAuthHandler(&accountServiceMock{}, auth, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/logout", nil)
	c.Set("sessionToken", "tok-1")
	h.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "tok-1", auth.lastLogout)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "unireg_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestAuthHandlerLogoutWithoutToken(t *testing.T) {
	h := NewAuthHandler(&accountServiceMock{}, &authServiceMock{}, "unireg_session", 3600, false)

	c, w := newAuthContext(t, http.MethodPost, "/auth/logout", nil)
	h.Logout(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}
