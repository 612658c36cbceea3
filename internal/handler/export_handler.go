package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/service"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
	"github.com/noah-isme/unireg-gateway/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, sess *models.Session, format string) (*service.ExportResult, error)
}

// ExportHandler renders roster downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Export the student roster
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /students/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exports.Export(c.Request.Context(), sess, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
