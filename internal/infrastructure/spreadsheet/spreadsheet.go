// Package spreadsheet reads and writes the single-sheet .xlsx workbooks used
// for CRM export and import.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrEmptyWorkbook = errors.New("workbook has no header row")
	ErrInvalidFile   = errors.New("file is not a valid .xlsx workbook")
)

// Column describes one exported column
type Column struct {
	Header string
	Width  float64
}

// Write renders columns and rows into a workbook with a bold, frozen header row.
// Cell values are written as-is; nil leaves the cell empty.
func Write(w io.Writer, sheet string, columns []Column, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
		if col.Width > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return err
			}
		}
	}
	if len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Table is the first sheet of an uploaded workbook
type Table struct {
	headers map[string]int
	Rows    []Row
}

// Row is one non-blank data row; Number is the 1-based sheet row
type Row struct {
	Number int
	table  *Table
	cells  []string
}

// Read parses the first sheet. Headers match case-insensitively and every
// name in required must be present. Blank rows are skipped.
func Read(r io.Reader, required ...string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	t := &Table{headers: make(map[string]int)}
	for i, h := range rows[0] {
		if key := normalize(h); key != "" {
			if _, dup := t.headers[key]; !dup {
				t.headers[key] = i
			}
		}
	}
	var missing []string
	for _, name := range required {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		t.Rows = append(t.Rows, Row{Number: i + 2, table: t, cells: cells})
	}
	return t, nil
}

// Has reports whether the header row contains name
func (t *Table) Has(name string) bool {
	_, ok := t.headers[normalize(name)]
	return ok
}

// Get returns the trimmed cell under header name, or "" when absent
func (r Row) Get(name string) string {
	idx, ok := r.table.headers[normalize(name)]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func normalize(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
