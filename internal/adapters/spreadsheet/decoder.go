// Package spreadsheet reads uploaded .xlsx/.xls workbooks into raw rows and writes the upload templates.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"yople/internal/domain/bulkimport"
)

// maxXLSRows bounds ReadAllCells on legacy workbooks.
const maxXLSRows = 100000

// User-facing decode messages.
const (
	MsgUnsupportedFile = "엑셀 파일(.xlsx, .xls)만 업로드 가능합니다."
	MsgUnreadableFile  = "파일을 읽을 수 없습니다."
	MsgNoSheet         = "시트가 없습니다."
)

// DecodeError reports a file that cannot be read as a workbook. It aborts the whole import.
type DecodeError struct {
	Message string
	Err     error
}

// Error returns the user-facing message.
func (e *DecodeError) Error() string {
	return e.Message
}

// Unwrap returns the underlying parser error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Sheet is the first worksheet of an uploaded workbook.
// Rows[i] is spreadsheet row i+2; blank rows are kept so numbering stays aligned.
type Sheet struct {
	Name   string
	Header []string
	Rows   []bulkimport.RawRow
}

// SupportedFile reports whether filename has an .xlsx or .xls extension.
func SupportedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Decode reads the first sheet of an .xlsx or .xls workbook.
// PRE: r yields the whole file; filename carries its original extension
// POST: header cells are trimmed; numeric .xlsx cells are float64, every other cell a string
// INVARIANT: pure read, r is consumed and nothing else is touched
func Decode(r io.Reader, filename string) (Sheet, error) {
	if !SupportedFile(filename) {
		return Sheet{}, &DecodeError{Message: MsgUnsupportedFile}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, &DecodeError{Message: MsgUnreadableFile, Err: err}
	}
	if strings.ToLower(filepath.Ext(filename)) == ".xls" {
		return decodeXLS(data)
	}
	return decodeXLSX(data)
}

func decodeXLSX(data []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, &DecodeError{Message: MsgUnreadableFile, Err: err}
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(0)
	if name == "" {
		return Sheet{}, &DecodeError{Message: MsgNoSheet}
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, &DecodeError{Message: MsgUnreadableFile, Err: err}
	}

	typed := make([][]any, len(rows))
	for ri, row := range rows {
		typed[ri] = make([]any, len(row))
		for ci, raw := range row {
			typed[ri][ci] = xlsxCell(f, name, ci, ri, raw)
		}
	}
	return buildSheet(name, typed), nil
}

// xlsxCell types one raw cell value: strings stay strings, numbers become float64.
func xlsxCell(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		if raw == "1" {
			return "TRUE"
		}
		return "FALSE"
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return v
	}
	return raw
}

func decodeXLS(data []byte) (sheet Sheet, err error) {
	// The legacy parser panics on some malformed containers.
	defer func() {
		if r := recover(); r != nil {
			sheet, err = Sheet{}, &DecodeError{Message: MsgUnreadableFile, Err: fmt.Errorf("xls: %v", r)}
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return Sheet{}, &DecodeError{Message: MsgUnreadableFile, Err: err}
	}
	if wb == nil {
		return Sheet{}, &DecodeError{Message: MsgUnreadableFile}
	}
	if wb.NumSheets() == 0 {
		return Sheet{}, &DecodeError{Message: MsgNoSheet}
	}
	name := ""
	if ws := wb.GetSheet(0); ws != nil {
		name = ws.Name
	}
	cells := readFirstSheet(wb)
	typed := make([][]any, len(cells))
	for ri, row := range cells {
		typed[ri] = make([]any, len(row))
		for ci, v := range row {
			typed[ri][ci] = v
		}
	}
	return buildSheet(name, typed), nil
}

// readFirstSheet collects the cells of sheet 0 only; ReadAllCells would merge every sheet.
func readFirstSheet(wb *xls.WorkBook) [][]string {
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil
	}
	var out [][]string
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		row := sheetRow(ws, i)
		if row == nil {
			out = append(out, nil)
			continue
		}
		cols := make([]string, 0, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			for len(cols) < c {
				cols = append(cols, "")
			}
			cols = append(cols, row.Col(c))
		}
		out = append(out, cols)
	}
	return out
}

// sheetRow returns nil for rows absent from the sheet; ws.Row dereferences them unchecked.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func buildSheet(name string, rows [][]any) Sheet {
	sheet := Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}
	for _, h := range rows[0] {
		sheet.Header = append(sheet.Header, strings.TrimSpace(fmt.Sprint(h)))
	}
	body := rows[1:]
	// Trailing blank rows carry no data and no row numbers worth reporting.
	for len(body) > 0 && blank(body[len(body)-1]) {
		body = body[:len(body)-1]
	}
	for _, cells := range body {
		raw := make(bulkimport.RawRow, len(sheet.Header))
		for ci, h := range sheet.Header {
			if h == "" {
				continue
			}
			var v any = ""
			if ci < len(cells) {
				v = cells[ci]
			}
			raw[h] = v
		}
		sheet.Rows = append(sheet.Rows, raw)
	}
	return sheet
}

func blank(cells []any) bool {
	for _, c := range cells {
		if s, ok := c.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}
