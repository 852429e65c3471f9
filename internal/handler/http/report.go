package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/zoo-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	// Revenue Report
	GetRevenueReport(w http.ResponseWriter, r *http.Request)

	// Shift Report
	GetShiftReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	logger        *slog.Logger
}

func NewReportHandler(reportService report.ReportService, logger *slog.Logger) ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportHandlerImpl{
		reportService: reportService,
		logger:        logger,
	}
}

// GetRevenueReport handles GET and POST /reports/revenue
func (h *reportHandlerImpl) GetRevenueReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeReportRequest(w, r)
	if !ok {
		return
	}
	// Employees do not scope revenue.
	req.EmployeeIDs = nil

	result, err := h.reportService.GenerateRevenueReport(ctx, req)
	if err != nil {
		h.handleError(w, r, "revenue", err)
		return
	}

	if req.OutputFormat() == report.FormatXLSX {
		err := response.Attachment(w, export.ContentTypeXLSX, "revenue-report.xlsx", func(out io.Writer) error {
			return export.WriteRevenueReport(out, result)
		})
		if err != nil {
			h.handleError(w, r, "revenue", err)
		}
		return
	}

	response.Success(w, result)
}

// GetShiftReport handles GET and POST /reports/shifts
func (h *reportHandlerImpl) GetShiftReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeReportRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateShiftReport(ctx, req)
	if err != nil {
		h.handleError(w, r, "shifts", err)
		return
	}

	if req.OutputFormat() == report.FormatXLSX {
		err := response.Attachment(w, export.ContentTypeXLSX, "shift-report.xlsx", func(out io.Writer) error {
			return export.WriteShiftReport(out, result)
		})
		if err != nil {
			h.handleError(w, r, "shifts", err)
		}
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) handleError(w http.ResponseWriter, r *http.Request, family string, err error) {
	if response.IsServerError(err) {
		h.logger.ErrorContext(r.Context(), "report generation failed",
			slog.String("report", family),
			slog.String("query", r.URL.RawQuery),
			slog.Any("error", err),
		)
	}
	response.HandleError(w, err)
}

// decodeReportRequest supports both GET with query params and POST with body.
// It writes the error response itself when ok is false.
func decodeReportRequest(w http.ResponseWriter, r *http.Request) (report.ReportRequest, bool) {
	var req report.ReportRequest

	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "invalid request body", nil)
			return req, false
		}
		return req, true
	}

	query := r.URL.Query()
	req.BusinessIDs = listParam(query, "business_ids")
	req.BusinessType = query.Get("business_type")
	req.StartDate = query.Get("start_date")
	req.EndDate = query.Get("end_date")
	req.EmployeeIDs = listParam(query, "employee_ids")
	req.Detail = report.DetailLevel(query.Get("detail"))
	req.Format = report.ExportFormat(query.Get("format"))
	return req, true
}

// listParam accepts both repeated keys and comma separated values.
func listParam(query url.Values, key string) []string {
	var values []string
	for _, raw := range query[key] {
		values = append(values, validator.SplitCSV(raw)...)
	}
	return values
}
