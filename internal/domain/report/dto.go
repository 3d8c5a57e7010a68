package report

import (
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
)

// ========================================
// USER HISTORY REPORT
// ========================================

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

type HistoryRequest struct {
	UserID string `json:"-"`

	// Both bounds must be set for the range to apply. YYYY-MM-DD.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	var start, end time.Time
	var startOK, endOK bool
	if r.StartDate != "" {
		if start, startOK = validator.IsValidDate(r.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != "" {
		if end, endOK = validator.IsValidDate(r.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasRange reports whether both bounds were supplied.
func (r HistoryRequest) HasRange() bool {
	return r.StartDate != "" && r.EndDate != ""
}

type ExportRequest struct {
	HistoryRequest
	Format Format `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.HistoryRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if r.Format == "" {
		r.Format = FormatPDF
	}
	if r.Format != FormatPDF && r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: pdf, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserHistoryReport struct {
	User        user.UserResponse                  `json:"user"`
	StartDate   *string                            `json:"start_date,omitempty"`
	EndDate     *string                            `json:"end_date,omitempty"`
	GeneratedAt string                             `json:"generated_at"`
	Records     []attendance.AttendanceDayResponse `json:"records"`

	TotalHoursWorked float64 `json:"total_hours_worked"`
	RequiredHours    int     `json:"required_hours"`
	RemainingHours   float64 `json:"remaining_hours"`
}

// ExportFile is a rendered report ready to be sent as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
