package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must be after start date")
	ErrInvalidDetailLevel     = errors.New("detail must be one of full, summary, aggregated")
	ErrInvalidBusinessType    = errors.New("business type is not supported")
	ErrInvalidFormat          = errors.New("format must be json or xlsx")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
