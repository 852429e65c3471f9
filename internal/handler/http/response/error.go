package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Report domain errors
	switch {
	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// IsServerError reports whether HandleError answers err with a 5xx status
func IsServerError(err error) bool {
	var validationErrs validator.ValidationErrors
	return !errors.As(err, &validationErrs)
}
