// Package document renders attendance history reports as downloadable files.
package document

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
)

var columns = []string{"Date", "Time In", "Break In", "Break Out", "Time Out", "Hours Worked"}

// row flattens one record into the column order above.
func row(r attendance.AttendanceDayResponse) []string {
	hours := "-"
	if r.WorkedHours != nil {
		hours = fmt.Sprintf("%.2f", *r.WorkedHours)
	}
	return []string{r.Date, clock(r.TimeIn), clock(r.BreakIn), clock(r.BreakOut), clock(r.TimeOut), hours}
}

// clock keeps the time-of-day part of a formatted timestamp.
func clock(ts *string) string {
	if ts == nil {
		return "-"
	}
	if i := strings.IndexByte(*ts, ' '); i >= 0 {
		return (*ts)[i+1:]
	}
	return *ts
}

func period(r report.UserHistoryReport) string {
	if r.StartDate != nil && r.EndDate != nil {
		return *r.StartDate + " to " + *r.EndDate
	}
	return "All records"
}

// Renderers returns every supported renderer keyed by format.
func Renderers() map[report.Format]report.Renderer {
	return map[report.Format]report.Renderer{
		report.FormatPDF:  PDFRenderer{},
		report.FormatXLSX: XLSXRenderer{},
	}
}
