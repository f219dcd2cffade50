package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"yople/internal/domain/bulkimport"
)

// Template describes a downloadable upload form: one sheet, a header row and example rows.
type Template struct {
	Filename string
	Sheet    string
	Headers  []string
	Examples [][]string
	Widths   []float64
}

// AttendanceTemplate is the attendance history upload form.
var AttendanceTemplate = Template{
	Filename: "출석이력_일괄업로드_양식.xlsx",
	Sheet:    "출석이력",
	Headers:  []string{bulkimport.HeaderDate, bulkimport.HeaderName},
	Examples: [][]string{
		{"2025-01-05", "홍길동"},
		{"2025-01-12", "김영희"},
	},
	Widths: []float64{12, 14},
}

// MemberTemplate is the roster upload form.
var MemberTemplate = Template{
	Filename: "청년명단_일괄등록_양식.xlsx",
	Sheet:    "청년명단",
	Headers: []string{
		bulkimport.HeaderName, bulkimport.HeaderPhone, bulkimport.HeaderBirthDate,
		bulkimport.HeaderNewMember, bulkimport.HeaderMemo,
	},
	Examples: [][]string{
		{"홍길동", "010-1234-5678", "1995-01-15", "Y", ""},
		{"김영희", "010-1111-2222", "1998-06-01", "N", ""},
	},
	Widths: []float64{10, 18, 12, 8, 15},
}

// WriteTemplate renders t as an .xlsx workbook to w.
// PRE: t.Sheet is a valid sheet name; len(t.Widths) <= len(t.Headers)
// POST: the workbook has exactly one sheet named t.Sheet
func WriteTemplate(w io.Writer, t Template) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), t.Sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := append([][]string{t.Headers}, t.Examples...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(t.Sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	for i, width := range t.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Sheet, col, col, width); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}
	return f.Write(w)
}
