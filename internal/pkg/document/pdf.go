package document

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
	"github.com/go-pdf/fpdf"
)

var pdfColumnWidths = []float64{30, 30, 30, 30, 30, 30}

type PDFRenderer struct{}

func (PDFRenderer) Format() report.Format { return report.FormatPDF }

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Render(w io.Writer, r report.UserHistoryReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(r.User.Name+" DTR History", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Daily Time Record", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Employee: "+r.User.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Email: "+r.User.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Period: "+period(r), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Generated: "+r.GeneratedAt, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(pdfColumnWidths[i], 8, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(r.Records) == 0 {
		pdf.CellFormat(sum(pdfColumnWidths), 8, "No records found", "1", 1, "C", false, 0, "")
	}
	for _, rec := range r.Records {
		for i, v := range row(rec) {
			pdf.CellFormat(pdfColumnWidths[i], 7, v, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Hours Worked: %.2f", r.TotalHoursWorked), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Required Hours: %d", r.RequiredHours), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Remaining Hours: %.2f", r.RemainingHours), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}
