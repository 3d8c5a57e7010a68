package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Report domain errors; checked before not-found so a failed export stays an export failure
	case errors.Is(err, report.ErrExportFailure):
		InternalServerError(w, err.Error())

	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyTimedIn):
		Conflict(w, "You have already timed in today.")
	case errors.Is(err, attendance.ErrAlreadyTimedOut):
		Conflict(w, "You have already timed out today.")
	case errors.Is(err, attendance.ErrNotTimedIn):
		BadRequest(w, "You need to time in first.", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyEnded):
		Conflict(w, "Your break for today has already ended.")
	case errors.Is(err, attendance.ErrBreakAlreadyBegun):
		Conflict(w, "Your break has already started.")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, storage.ErrObjectNotFound):
		NotFound(w, "Capture not found")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
