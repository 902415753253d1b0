package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"customer-insight/internal/customer/model"
)

const (
	lostSheetName    = "Lost Customers"
	summarySheetName = "Summary"
)

// WriteLostCustomersWorkbook — книга из двух листов: кандидаты + сводка
// (количество по приоритетам, сумма и среднее число покупок).
func WriteLostCustomersWorkbook(w io.Writer, cands []model.LostCandidate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", lostSheetName); err != nil {
		return err
	}

	header := []interface{}{
		"customer name", "last year", "last month", "purchases",
		"formal", "informal", "mobile", "phone", "address", "products", "priority",
	}
	if err := f.SetSheetRow(lostSheetName, "A1", &header); err != nil {
		return err
	}
	for i, c := range cands {
		row := []interface{}{
			c.CustomerName, c.LastYear, c.LastMonth, c.Purchases,
			c.Formal, c.Informal,
			strings.Join(c.Mobiles, ", "),
			strings.Join(c.Phones, ", "),
			strings.Join(c.Addresses, "; "),
			strings.Join(c.Products, ", "),
			c.Priority,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(lostSheetName, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheetName); err != nil {
		return err
	}

	high, medium, low, total := 0, 0, 0, 0
	for _, c := range cands {
		switch c.Priority {
		case model.PriorityHigh:
			high++
		case model.PriorityMedium:
			medium++
		default:
			low++
		}
		total += c.Purchases
	}
	mean := 0.0
	if len(cands) > 0 {
		mean = float64(total) / float64(len(cands))
	}

	summary := [][]interface{}{
		{"metric", "value"},
		{"lost customers", len(cands)},
		{"high priority", high},
		{"medium priority", medium},
		{"low priority", low},
		{"total purchases", total},
		{"mean purchases", mean},
	}
	for i, row := range summary {
		r := row
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheetName, cell, &r); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteCSV — плоская табличная выгрузка; BOM впереди, чтобы Excel корректно
// распознал UTF-8 с персидским текстом.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LostCandidatesCSV — те же кандидаты в CSV-представлении.
func LostCandidatesCSV(cands []model.LostCandidate) (header []string, rows [][]string) {
	header = []string{
		"customer name", "last year", "last month", "purchases",
		"formal", "informal", "mobile", "phone", "address", "products", "priority",
	}
	rows = make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{
			c.CustomerName,
			fmt.Sprintf("%d", c.LastYear),
			fmt.Sprintf("%d", c.LastMonth),
			fmt.Sprintf("%d", c.Purchases),
			fmt.Sprintf("%d", c.Formal),
			fmt.Sprintf("%d", c.Informal),
			strings.Join(c.Mobiles, ", "),
			strings.Join(c.Phones, ", "),
			strings.Join(c.Addresses, "; "),
			strings.Join(c.Products, ", "),
			c.Priority,
		})
	}
	return header, rows
}
