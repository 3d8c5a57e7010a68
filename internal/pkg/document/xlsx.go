package document

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const sheetName = "DTR History"

type XLSXRenderer struct{}

func (XLSXRenderer) Format() report.Format { return report.FormatXLSX }

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render lays out a summary block, then one row per record starting at row 7.
func (XLSXRenderer) Render(w io.Writer, r report.UserHistoryReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	summary := [][]interface{}{
		{"Employee", r.User.Name},
		{"Period", period(r)},
		{"Total Hours Worked", r.TotalHoursWorked},
		{"Required Hours", r.RequiredHours},
		{"Remaining Hours", r.RemainingHours},
	}
	for i, pair := range summary {
		if err := setRow(f, i+1, pair); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "A5", bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	const headerRow = 7
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, headerRow, header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
	if err := f.SetCellStyle(sheetName, "A7", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range r.Records {
		values := row(rec)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		if rec.WorkedHours != nil {
			cells[len(cells)-1] = *rec.WorkedHours
		}
		if err := setRow(f, headerRow+1+i, cells); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "F", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}
