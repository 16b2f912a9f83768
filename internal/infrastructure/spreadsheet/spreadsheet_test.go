package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	columns := []Column{{Header: "Buyer Code", Width: 14}, {Header: "Company Name", Width: 30}, {Header: "Annual Revenue"}}
	rows := [][]any{
		{"BY-00001", "Acme Holdings", "1250000.50"},
		{"BY-00002", "Globex", nil},
	}
	require.NoError(t, Write(&buf, "Buyers", columns, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "Buyers", f.GetSheetName(0))
	require.NoError(t, f.Close())

	table, err := Read(bytes.NewReader(buf.Bytes()), "company name", "BUYER CODE")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Acme Holdings", table.Rows[0].Get("Company Name"))
	assert.Equal(t, "1250000.50", table.Rows[0].Get("annual revenue"))
	assert.Equal(t, "", table.Rows[1].Get("Annual Revenue"))
	assert.Equal(t, "", table.Rows[1].Get("Unknown Column"))
	assert.True(t, table.Has("  Buyer   Code "))
}

func TestRead_Errors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := Read(strings.NewReader("name,email\n"))
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("empty sheet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "Sellers", nil, nil))
		_, err := Read(&buf)
		assert.ErrorIs(t, err, ErrEmptyWorkbook)
	})

	t.Run("missing required column", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "Sellers", []Column{{Header: "Seller Code"}}, nil))
		_, err := Read(&buf, "Company Name", "Sale Type")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Company Name, Sale Type")
	})
}

func TestRead_SkipsBlankRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Buyers", []Column{{Header: "Company Name"}}, [][]any{
		{"First"}, {"   "}, {"Third"},
	}))
	table, err := Read(&buf, "Company Name")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 4, table.Rows[1].Number)
}

func TestImportResult_Fail(t *testing.T) {
	var r ImportResult
	for i := 0; i < MaxReportedErrors+5; i++ {
		r.Fail(i+2, "Company Name", "This field is required")
	}
	assert.Equal(t, MaxReportedErrors+5, r.Failed)
	assert.Len(t, r.Errors, MaxReportedErrors)
	assert.Equal(t, `row 2, column "Company Name": This field is required`, r.Errors[0].Error())
}
