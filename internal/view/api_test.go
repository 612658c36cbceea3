package view

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

func TestAPIClientListStudents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/students", r.URL.Path)
		assert.Equal(t, "page=2", r.URL.RawQuery)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.StudentPage{ //nolint:errcheck
			Status: "success",
			Data:   []models.Student{{ID: 3, Name: "Cleo"}},
		})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, nil)
	students, err := client.ListStudents(context.Background(), "tok", 2)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Cleo", students[0].Name)
}

func TestAPIClientCreateStudent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload models.NewStudent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Ana", payload.Name)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Student{ID: 5, Name: payload.Name}) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, nil)
	created, err := client.CreateStudent(context.Background(), "tok", models.NewStudent{
		Name: "Ana", Email: "ana@example.com", Phone: "555", Course: "CS",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
}

func TestAPIClientErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Student not found"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, nil)
	err := client.DeleteStudent(context.Background(), "tok", 42)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Student not found", apiErr.Message)
}

func TestAPIClientFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded")) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, nil)
	err := client.DeleteStudent(context.Background(), "tok", 42)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "request failed", apiErr.Message)
}
