// Package view implements the data contracts behind the registration UI:
// the student form (validation, create-vs-update submission) and the
// paginated roster list. Rendering itself lives elsewhere; these types only
// hold the state a renderer binds to.
package view

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

// StudentAPI is the slice of the gateway surface the view layer consumes.
type StudentAPI interface {
	ListStudents(ctx context.Context, token string, page int) ([]models.Student, error)
	CreateStudent(ctx context.Context, token string, payload models.NewStudent) (*models.Student, error)
	UpdateStudent(ctx context.Context, token string, id int, payload models.NewStudent) (*models.Student, error)
	DeleteStudent(ctx context.Context, token string, id int) error
}

// APIClient talks to the gateway's student routes over HTTP.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient constructs an APIClient for the given gateway base URL.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// ListStudents fetches one page of students.
func (c *APIClient) ListStudents(ctx context.Context, token string, page int) ([]models.Student, error) {
	var envelope models.StudentPage
	path := fmt.Sprintf("/students?page=%d", page)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// CreateStudent submits a new student.
func (c *APIClient) CreateStudent(ctx context.Context, token string, payload models.NewStudent) (*models.Student, error) {
	var created models.Student
	if err := c.do(ctx, http.MethodPost, "/students", token, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStudent submits changes to an existing student.
func (c *APIClient) UpdateStudent(ctx context.Context, token string, id int, payload models.NewStudent) (*models.Student, error) {
	var updated models.Student
	if err := c.do(ctx, http.MethodPut, "/students/"+strconv.Itoa(id), token, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStudent removes a student.
func (c *APIClient) DeleteStudent(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/students/"+strconv.Itoa(id), token, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path, token string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	if dest != nil {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// APIError carries the server's status and human-readable message.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// serverMessage extracts the message or error field from an error body.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "request failed"
}
