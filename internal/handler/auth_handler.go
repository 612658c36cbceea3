package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unireg-gateway/internal/middleware"
	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/service"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
	"github.com/noah-isme/unireg-gateway/pkg/response"
)

type accountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*service.RegisterResult, error)
}

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler exposes account registration and session sign-in/out.
type AuthHandler struct {
	accounts   accountService
	auth       authService
	cookieName string
	cookieTTL  int
	secure     bool
}

// NewAuthHandler constructs AuthHandler. cookieTTL is in seconds.
func NewAuthHandler(accounts accountService, auth authService, cookieName string, cookieTTL int, secure bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: auth, cookieName: cookieName, cookieTTL: cookieTTL, secure: secure}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} service.RegisterResult
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MessageError(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "Internal server error"))
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		response.MessageError(c, err)
		return
	}
	response.Created(c, result)
}

// Login godoc
// @Summary Sign in and create a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MessageError(c, appErrors.Clone(appErrors.ErrValidation, "Email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.MessageError(c, err)
		return
	}

	if h.cookieName != "" {
		c.SetCookie(h.cookieName, result.SessionToken, h.cookieTTL, "/", "", h.secure, true)
	}
	response.JSON(c, http.StatusOK, result)
}

// Logout godoc
// @Summary Sign out and destroy the session
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)
	if token == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	if h.cookieName != "" {
		c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true})
}
