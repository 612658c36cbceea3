package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/upstream"
	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
	"github.com/noah-isme/unireg-gateway/pkg/export"
)

// exportFetchLimit bounds how many students one export pulls from upstream.
const exportFetchLimit = 1000

// ExportResult bundles a rendered roster file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the student roster as CSV or PDF. It reads through
// the same upstream endpoint the list uses, so exported data is exactly what
// a caller would page through.
type ExportService struct {
	gateway upstream.Gateway
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(gateway upstream.Gateway, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		gateway: gateway,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Export fetches the roster and renders it in the requested format.
func (s *ExportService) Export(ctx context.Context, sess *models.Session, format string) (*ExportResult, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(exportFetchLimit))
	query.Set("offset", "0")

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

	var page models.StudentPage
	if err := resp.Decode(&page); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to fetch students")
	}

	table := export.Table{
		Title:   "Student Roster",
		Headers: []string{"ID", "Name", "Email", "Phone", "Course"},
	}
	for _, st := range page.Data {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(st.ID), st.Name, st.Email, st.Phone, st.Course,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case "csv":
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to render export")
		}
		return &ExportResult{Filename: "students-" + stamp + ".csv", ContentType: "text/csv", Data: data}, nil
	default:
		data, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to render export")
		}
		return &ExportResult{Filename: "students-" + stamp + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
}
