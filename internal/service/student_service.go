package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/upstream"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

const studentsPath = "/v1/students"

// StudentService proxies student CRUD operations to the upstream API. It is
// stateless apart from the optional list page cache, which is invalidated
// after every successful mutation.
type StudentService struct {
	gateway  upstream.Gateway
	cache    *CacheService
	logger   *zap.Logger
	pageSize int
}

// NewStudentService constructs the student service.
func NewStudentService(gateway upstream.Gateway, cache *CacheService, logger *zap.Logger, pageSize int) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &StudentService{gateway: gateway, cache: cache, logger: logger, pageSize: pageSize}
}

// PageSize reports the fixed page size used for listing.
func (s *StudentService) PageSize() int {
	return s.pageSize
}

// List fetches one page of students and returns the upstream body unmodified.
func (s *StudentService) List(ctx context.Context, sess *models.Session, page int) (json.RawMessage, error) {
	pg := models.Page{Number: page, Limit: s.pageSize}
	cacheKey := fmt.Sprintf("students:page:%d", page)

	if s.cache.Enabled() {
		var cached json.RawMessage
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached, nil
		}
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(pg.Limit))
	query.Set("offset", strconv.Itoa(pg.Offset()))

	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   studentsPath,
		Query:  query,
		Token:  sess.User.AccessToken,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to fetch students")
	}
	if !resp.OK() {
		return nil, appErrors.New(appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to fetch students")
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to fetch students")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, body, 0)
	}

	return body, nil
}

// Get fetches a single student by id.
func (s *StudentService) Get(ctx context.Context, sess *models.Session, id string) (json.RawMessage, error) {
	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   studentsPath + "/" + id,
		Token:  sess.User.AccessToken,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to fetch student")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	if !resp.OK() {
		return nil, appErrors.New(appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to fetch student")
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to fetch student")
	}
	return body, nil
}

// Create forwards the new student payload and returns the created entity.
func (s *StudentService) Create(ctx context.Context, sess *models.Session, payload json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(payload) {
		return nil, appErrors.New(appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to create student")
	}
	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   studentsPath,
		Body:   payload,
		Token:  sess.User.AccessToken,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to create student")
	}
	if !resp.OK() {
		return nil, s.relayOrFail(resp, "Failed to create student")
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to create student")
	}

	s.invalidatePages(ctx)

	return body, nil
}

// Update forwards the payload as-is; the upstream performs its own
// validation and the gateway relays its verdict.
func (s *StudentService) Update(ctx context.Context, sess *models.Session, id string, payload json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(payload) {
		return nil, appErrors.New(appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to update student")
	}
	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodPut,
		Path:   studentsPath + "/" + id,
		Body:   payload,
		Token:  sess.User.AccessToken,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to update student")
	}
	if !resp.OK() {
		return nil, s.relayOrFail(resp, "Failed to update student")
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to update student")
	}

	s.invalidatePages(ctx)

	return body, nil
}

// Delete removes the student. No upstream body parsing happens on success.
func (s *StudentService) Delete(ctx context.Context, sess *models.Session, id string) error {
	resp, err := s.gateway.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   studentsPath + "/" + id,
		Token:  sess.User.AccessToken,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to delete student")
	}
	if resp.StatusCode == http.StatusNotFound {
		return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	if !resp.OK() {
		return s.relayOrFail(resp, "Failed to delete student")
	}

	s.invalidatePages(ctx)

	return nil
}

// relayOrFail maps a non-2xx upstream response: its JSON body and status are
// relayed verbatim when readable, otherwise a generic 500.
func (s *StudentService) relayOrFail(resp *upstream.Response, fallback string) error {
	if body, err := resp.JSON(); err == nil {
		return appErrors.Relay(resp.StatusCode, body)
	}
	return appErrors.New(appErrors.ErrUpstream.Code, http.StatusInternalServerError, fallback)
}

func (s *StudentService) invalidatePages(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "students:page:*"); err != nil {
		s.logger.Warn("failed to invalidate student pages", zap.Error(err))
	}
}
