package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV читает CSV как одну «виртуальную» книгу с единственным листом,
// автодетект кодировки с конвертацией в UTF-8. Из коробки поддерживаются
// UTF-8 и Windows-1256 (легаси-выгрузки с персидским текстом).
func readCSV(r io.Reader, filename string, headerRow int) ([]Sheet, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1256", "cp1256", "iso-8859-6":
		dec = transform.NewReader(br, charmap.Windows1256.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	maps := rowsToMaps(rows, h, headerRow)
	if len(maps) == 0 {
		return nil, nil
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return []Sheet{{Name: name, Rows: maps}}, nil
}
