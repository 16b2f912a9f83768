package spreadsheet

import "fmt"

// MaxReportedErrors caps the row errors returned to a client
const MaxReportedErrors = 100

// RowError describes why one sheet row was not imported
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ImportResult summarizes an import; rows either import fully or are skipped
type ImportResult struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Fail records a skipped row. Only the first MaxReportedErrors are kept.
func (r *ImportResult) Fail(row int, column, message string) {
	r.Failed++
	if len(r.Errors) < MaxReportedErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Column: column, Message: message})
	}
}
