package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/session"
	"github.com/noah-isme/unireg-gateway/internal/upstream"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

const loginPath = "/auth/login"

// ErrInvalidCredentials is returned when the upstream rejects a sign-in.
var ErrInvalidCredentials = appErrors.New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password")

// sessionCreator is the slice of session.Manager the auth flow needs.
type sessionCreator interface {
	Create(ctx context.Context, user models.SessionUser) (string, *models.Session, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService exchanges upstream credentials for gateway sessions. The
// upstream access token obtained at sign-in is stored inside the session
// record and forwarded on every protected call; it is never handed to the
// browser directly.
type AuthService struct {
	gateway   upstream.Gateway
	sessions  sessionCreator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(gateway upstream.Gateway, sessions sessionCreator, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{gateway: gateway, sessions: sessions, validator: validate, logger: logger}
}

// Login authenticates against the upstream API and creates a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Email and password are required")
	}

	body, err := upstreamJSON(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   body,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}
	if !resp.OK() {
		return nil, appErrors.New(ErrInvalidCredentials.Code, http.StatusUnauthorized, resp.ErrorMessage(ErrInvalidCredentials.Message))
	}

	var auth struct {
		User        models.AccountUser `json:"user"`
		AccessToken string             `json:"accessToken"`
		Role        string             `json:"role"`
	}
	if err := resp.Decode(&auth); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}

	user := models.SessionUser{
		ID:          strconv.Itoa(auth.User.ID),
		Name:        auth.User.Username,
		Email:       auth.User.Email,
		Role:        auth.Role,
		AccessToken: auth.AccessToken,
	}
	token, sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}

	return &models.LoginResponse{
		User:         auth.User,
		Role:         auth.Role,
		SessionToken: token,
		ExpiresAt:    sess.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func upstreamJSON(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}
	return body, nil
}

// Logout destroys the session referenced by the token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		if err == session.ErrInvalidToken {
			return appErrors.ErrUnauthorized
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}
	return nil
}
