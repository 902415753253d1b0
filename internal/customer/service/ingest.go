package service

import (
	"fmt"
	"strconv"
	"strings"

	"customer-insight/internal/customer/model"
	"customer-insight/internal/customer/normalize"
)

// Имена колонок выгрузки (регистрозависимые, как в исходных файлах).
const (
	colCustomer = "customer name"
	colYear     = "year"
	colMonth    = "month"
	colState    = "state"
	colAddress  = "address"
	colMobile   = "mobile"
	colPhone    = "phone"
	colProducts = "products"
)

// RecordInput — сырые поля одной записи (из строки листа или CRM-формы).
type RecordInput struct {
	Name     string `json:"customer_name"`
	Year     string `json:"year"`
	Month    string `json:"month"`
	State    string `json:"state"`
	Address  string `json:"address"`
	Mobile   string `json:"mobile"`
	Phone    string `json:"phone"`
	Products string `json:"products"`
	Sheet    string `json:"sheet_name"`
}

// recordFromRow — строка листа -> Record. Отсутствующие колонки дают пустые
// значения, а не ошибку. false — строка без пригодного имени клиента.
// Вызывается под s.mu.
func (s *Session) recordFromRow(row map[string]string, sheet string) (model.Record, bool) {
	in := RecordInput{
		Name:     row[colCustomer],
		Year:     row[colYear],
		Month:    row[colMonth],
		State:    row[colState],
		Address:  row[colAddress],
		Mobile:   row[colMobile],
		Phone:    row[colPhone],
		Products: row[colProducts],
		Sheet:    sheet,
	}
	rec, err := s.recordFromInput(in)
	if err != nil {
		return model.Record{}, false
	}
	return rec, true
}

// recordFromInput нормализует поля и выдаёт запись со свежим ID.
// Инвариант: имя клиента после чистки непустое и не "nan".
// Вызывается под s.mu.
func (s *Session) recordFromInput(in RecordInput) (model.Record, error) {
	name := strings.TrimSpace(in.Name)
	norm := normalize.Text(name)
	if norm == "" {
		return model.Record{}, fmt.Errorf("empty customer name")
	}

	products, keys := parseProducts(in.Products)

	rec := model.Record{
		ID:          newRecordID(),
		Sheet:       strings.TrimSpace(in.Sheet),
		Name:        name,
		NameNorm:    norm,
		Year:        parseCalendarInt(in.Year, 0),
		Month:       parseMonth(in.Month),
		StateRaw:    strings.TrimSpace(in.State),
		State:       normalize.Status(in.State),
		Address:     cleanFreeText(in.Address),
		Mobile:      normalize.Phone(in.Mobile),
		Phone:       normalize.Phone(in.Phone),
		ProductsRaw: strings.TrimSpace(in.Products),
		Products:    products,
		ProductKeys: keys,
		Seq:         s.nextSeq,
	}
	s.nextSeq++
	return rec, nil
}

// parseProducts — разбивка по запятой и арабской запятой «،», параллельные
// срезы display-имени и канонического ключа. Пустые ключи выбрасываются.
func parseProducts(raw string) (display, keys []string) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '،'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		key := normalize.ProductName(p)
		if key == "" {
			continue
		}
		display = append(display, p)
		keys = append(keys, key)
	}
	return display, keys
}

// Нечитаемый год/месяц — «неизвестно» (0), не ошибка.
// Терпим персидские цифры и хвост ".0" от табличных редакторов.
func parseCalendarInt(s string, def int) int {
	t := strings.TrimSpace(normalize.FoldDigits(s))
	if t == "" || strings.EqualFold(t, "nan") {
		return def
	}
	if v, err := strconv.Atoi(t); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return int(f)
	}
	return def
}

func parseMonth(s string) int {
	m := parseCalendarInt(s, 0)
	if m < 1 || m > 12 {
		return 0
	}
	return m
}

func cleanFreeText(s string) string {
	t := strings.TrimSpace(s)
	if strings.EqualFold(t, "nan") {
		return ""
	}
	return t
}
