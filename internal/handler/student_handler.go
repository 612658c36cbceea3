package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unireg-gateway/internal/models"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
	"github.com/noah-isme/unireg-gateway/pkg/response"
)

type studentService interface {
	List(ctx context.Context, sess *models.Session, page int) (json.RawMessage, error)
	Get(ctx context.Context, sess *models.Session, id string) (json.RawMessage, error)
	Create(ctx context.Context, sess *models.Session, payload json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, sess *models.Session, id string, payload json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, sess *models.Session, id string) error
}

// StudentHandler exposes the student proxy endpoints. Every route sits
// behind the session guard; the resolved session is passed explicitly into
// the service layer.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param page query int false "Page (1-based)"
// @Success 200 {object} models.StudentPage
// @Failure 401 {object} map[string]string
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page := 1
	if parsed, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = parsed
	}

	body, err := h.students.List(c.Request.Context(), sess, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, body)
}

// Get godoc
// @Summary Get student by id
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} map[string]string
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	body, err := h.students.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, body)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.NewStudent true "Student payload"
// @Success 201 {object} models.Student
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to create student"))
		return
	}

	body, err := h.students.Create(c.Request.Context(), sess, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusCreated, body)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.NewStudent true "Student payload"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpstream.Code, http.StatusInternalServerError, "Failed to update student"))
		return
	}

	body, err := h.students.Update(c.Request.Context(), sess, c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, body)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.students.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true})
}
