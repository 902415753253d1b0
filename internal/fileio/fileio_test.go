package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "1400"))
	rows := [][]interface{}{
		{"customer name", "year", "products"},
		{"شرکت پانتا", 1400, "Panflow 110"},
		{"", "", ""}, // полностью пустая строка выбрасывается
		{"فولاد البرز", 1400, "چسب ۱۱۰"},
	}
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("1400", cellA(i+1), &r))
	}

	_, err := f.NewSheet("1401")
	require.NoError(t, err)
	second := [][]interface{}{
		{"customer name", "year"},
		{"بازرگانی بهار", 1401},
	}
	for i, row := range second {
		r := row
		require.NoError(t, f.SetSheetRow("1401", cellA(i+1), &r))
	}

	// пустой лист не должен попасть в результат
	_, err = f.NewSheet("notes")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func cellA(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}

func TestReadWorkbookXLSX(t *testing.T) {
	buf := buildXLSX(t)

	sheets, err := ReadWorkbook(buf, "sales.xlsx", 1)
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "1400", sheets[0].Name)
	require.Len(t, sheets[0].Rows, 2)
	assert.Equal(t, "شرکت پانتا", sheets[0].Rows[0]["customer name"])
	assert.Equal(t, "1400", sheets[0].Rows[0]["year"])
	assert.Equal(t, "Panflow 110", sheets[0].Rows[0]["products"])
	assert.Equal(t, "فولاد البرز", sheets[0].Rows[1]["customer name"])

	assert.Equal(t, "1401", sheets[1].Name)
	require.Len(t, sheets[1].Rows, 1)
	assert.Equal(t, "بازرگانی بهار", sheets[1].Rows[0]["customer name"])
}

func TestReadWorkbookHeaderRow(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"выгрузка за 1400 год"}, // строка-титул перед заголовками
		{"customer name", "year"},
		{"شرکت پانتا", 1400},
	}
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellA(i+1), &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheets, err := ReadWorkbook(&buf, "sales.xlsx", 2)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Rows, 1)
	assert.Equal(t, "شرکت پانتا", sheets[0].Rows[0]["customer name"])
}

func TestReadWorkbookCSV(t *testing.T) {
	csvData := "customer name,year,products\nشرکت پانتا,1400,Panflow 110\nفولاد البرز,1402,چسب\n"

	sheets, err := ReadWorkbook(strings.NewReader(csvData), "export.csv", 1)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	// имя «листа» — имя файла без расширения
	assert.Equal(t, "export", sheets[0].Name)
	require.Len(t, sheets[0].Rows, 2)
	assert.Equal(t, "شرکت پانتا", sheets[0].Rows[0]["customer name"])
	assert.Equal(t, "1402", sheets[0].Rows[1]["year"])
}

func TestReadWorkbookUnsupported(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("x"), "data.pdf", 1)
	require.Error(t, err)
}

func TestPickHeaderFillsBlanks(t *testing.T) {
	h := pickHeader([][]string{{"customer name", "", "year"}}, 1)
	assert.Equal(t, []string{"customer name", "Column 2", "year"}, h)
}
