package service

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/upstream"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

const registerPath = "/auth/register"

// RegisterResult is the gateway's registration success payload.
type RegisterResult struct {
	Message string          `json:"message"`
	User    json.RawMessage `json:"user"`
}

// AccountService handles public account registration. No session is required;
// the upstream endpoint is open and the gateway only enforces the minimal
// required fields before forwarding.
type AccountService struct {
	gateway upstream.Gateway
	logger  *zap.Logger
}

// NewAccountService constructs the account service.
func NewAccountService(gateway upstream.Gateway, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{gateway: gateway, logger: logger}
}

// Register validates the minimal fields locally, then forwards the payload
// augmented with the default student role. Optional names default to null.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*RegisterResult, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "Username, email, and password are required")
	}

	body, err := json.Marshal(models.UpstreamRegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    models.DefaultStudentRoleID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}

	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   registerPath,
		Body:   body,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}

	var parsed struct {
		Message string          `json:"message"`
		User    json.RawMessage `json:"user"`
	}
	if err := resp.Decode(&parsed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Internal server error")
	}

	if !resp.OK() {
		msg := parsed.Message
		if msg == "" {
			msg = "Registration failed"
		}
		return nil, appErrors.New(appErrors.ErrUpstream.Code, resp.StatusCode, msg)
	}

	return &RegisterResult{Message: "Registration successful", User: parsed.User}, nil
}
