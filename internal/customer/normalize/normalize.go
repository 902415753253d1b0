package normalize

import (
	"regexp"
	"strings"

	"customer-insight/internal/customer/model"
)

// Арабские варианты → персидские (визуальные двойники Yeh/Kaf).
var persianLookalikes = map[rune]rune{
	'ي': 'ی', // ARABIC YEH -> FARSI YEH
	'ك': 'ک', // ARABIC KAF -> KEHEH
}

// Пробелы/полупробелы/разделители, которые схлопываем при сравнении статусов.
var reStatusSeparators = regexp.MustCompile(`[\s\-\x{200c}\x{200d}_:،,\x{00A0}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]+`)

// «غیر … رسم» — отрицание важнее утверждения.
var reInformal = regexp.MustCompile(`غیر.*رسم`)

// === unify — базовая унификация символов ===
// ی/ک из арабского блока, персидские и арабские цифры → ASCII.
func unify(s string) string {
	b := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹': // ۰..۹
			r = '0' + (r - '۰')
		case r >= '٠' && r <= '٩': // ٠..٩
			r = '0' + (r - '٠')
		default:
			if rr, ok := persianLookalikes[r]; ok {
				r = rr
			}
		}
		b = append(b, r)
	}
	return string(b)
}

// FoldDigits — публичная обёртка над unify для числовых полей.
func FoldDigits(s string) string { return unify(s) }

func isBlank(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return t == "" || t == "nan"
}

// Text — каноническая форма для ВСЕХ сравнений имён: унификация символов,
// ZWNJ и повторные пробелы → один пробел, trim, нижний регистр.
func Text(s string) string {
	if isBlank(s) {
		return ""
	}
	out := unify(s)
	out = strings.ReplaceAll(out, "\u200c", " ")
	out = strings.ToLower(out)
	return collapseSpaces(out)
}

// Status — رسمی / غیررسمی / نامشخص.
// Сначала срезаем все пробелы и разделители, потом ищем маркеры.
// Отрицание (غیر…رسم, پیش‌فاکتور, proforma, unofficial) побеждает.
func Status(s string) string {
	if isBlank(s) {
		return model.StatusUnknown
	}
	t := strings.ToLower(reStatusSeparators.ReplaceAllString(unify(s), ""))
	if t == "" {
		return model.StatusUnknown
	}
	switch {
	case reInformal.MatchString(t),
		strings.Contains(t, "پیشفاکتور"),
		strings.Contains(t, "proforma"),
		strings.Contains(t, "unofficial"):
		return model.StatusInformal
	case strings.Contains(t, "رسم"),
		strings.Contains(t, "official"),
		strings.Contains(t, "invoice"),
		strings.Contains(t, "فاکتور"):
		return model.StatusFormal
	}
	return model.StatusUnknown
}

// ProductName — канонический ключ продукта: нижний регистр, унификация,
// остаются только латиница/цифры/персидские буквы. Намеренно схлопывает
// варианты написания: "Panflow 110" и "panflow-110" → "panflow110".
func ProductName(s string) string {
	if isBlank(s) {
		return ""
	}
	t := strings.ToLower(unify(s))
	b := make([]rune, 0, len(t))
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r >= 'آ' && r <= 'ی': // آ..ی, включая پ چ ژ گ ک
			b = append(b, r)
		}
	}
	return string(b)
}

// Phone — только цифры; код страны 98 переписываем в национальный «0…».
// Длину/формат дальше не проверяем: кривые номера проходят как есть.
func Phone(s string) string {
	if isBlank(s) {
		return ""
	}
	t := unify(s)
	b := make([]rune, 0, len(t))
	for _, r := range t {
		if r >= '0' && r <= '9' {
			b = append(b, r)
		}
	}
	d := string(b)
	if strings.HasPrefix(d, "98") && len(d) >= 10 {
		d = "0" + d[2:]
	}
	return d
}

// Паттерны иранских номеров в свободном тексте.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+989\d{9}`),
	regexp.MustCompile(`09\d{9}`),
	regexp.MustCompile(`0\d{2,3}-?\d{7,8}`),
	regexp.MustCompile(`\b\d{11}\b`),
	regexp.MustCompile(`\b\d{4}-?\d{7}\b`),
}

// ExtractPhones — все номера из свободного текста, дедуп, порядок появления.
func ExtractPhones(text string) []string {
	if isBlank(text) {
		return nil
	}
	t := unify(text)
	seen := make(map[string]struct{})
	var out []string
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(t, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// Схлопывание пробелов.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
