package fileio

import (
	"bytes"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX читает все листы книги. Лист без строк пропускается,
// чтобы пустые «служебные» листы не порождали пустых сегментов.
func readXLSX(r io.Reader, headerRow int) ([]Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		h := pickHeader(rows, headerRow)
		maps := rowsToMaps(rows, h, headerRow)
		if len(maps) == 0 {
			continue
		}
		out = append(out, Sheet{Name: name, Rows: maps})
	}
	return out, nil
}
