package report

import (
	"context"
	"io"
)

// ReportService builds attendance history reports
type ReportService interface {
	// UserHistory aggregates all of a user's records, newest first
	UserHistory(ctx context.Context, req HistoryRequest) (UserHistoryReport, error)

	// Export renders the (optionally date-bounded) history as a downloadable file
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}

// Renderer writes a report in one document format
type Renderer interface {
	Format() Format
	ContentType() string
	Render(w io.Writer, r UserHistoryReport) error
}
