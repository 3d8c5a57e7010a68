package report

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrExportFailure    = errors.New("failed to generate report")
)

// ExportError wraps the cause of a failed export. It matches ErrExportFailure.
type ExportError struct {
	Format Format
	Cause  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to generate %s report: %v", e.Format, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

func (e *ExportError) Is(target error) bool { return target == ErrExportFailure }
