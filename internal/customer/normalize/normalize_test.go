package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"customer-insight/internal/customer/model"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"nan", "nan", ""},
		{"nan upper", "NaN", ""},
		{"trim and collapse", "  شرکت   پانتا  ", "شرکت پانتا"},
		{"arabic yeh unified", "يکتا", "یکتا"},
		{"arabic kaf unified", "كارا", "کارا"},
		{"zwnj to space", "می‌لاد", "می لاد"},
		{"latin lowered", "Panta Group", "panta group"},
		{"persian digits folded", "پانتا ۱۱۰", "پانتا 110"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", model.StatusUnknown},
		{"nan", "nan", model.StatusUnknown},
		{"formal", "رسمی", model.StatusFormal},
		{"formal with spaces", "  رسمی  ", model.StatusFormal},
		{"informal compound", "غیررسمی", model.StatusInformal},
		{"informal split words", "غیر رسمی", model.StatusInformal},
		{"informal zwnj", "غیر‌رسمی", model.StatusInformal},
		{"informal arabic yeh", "غير رسمي", model.StatusInformal},
		{"informal dash", "غیر-رسمی", model.StatusInformal},
		{"proforma", "پیش فاکتور", model.StatusInformal},
		{"english unofficial", "unofficial", model.StatusInformal},
		{"english official", "Official", model.StatusFormal},
		{"invoice keyword", "فاکتور", model.StatusFormal},
		{"garbage", "چیز دیگر", model.StatusUnknown},
		{"unknown literal", "نامشخص", model.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.in))
		})
	}
}

// Канонические выходы — неподвижные точки.
func TestStatusIdempotent(t *testing.T) {
	for _, s := range []string{model.StatusFormal, model.StatusInformal, model.StatusUnknown} {
		assert.Equal(t, Status(s), Status(Status(s)), "status %q", s)
	}
}

func TestProductName(t *testing.T) {
	assert.Equal(t, "panflow110", ProductName("Panflow 110"))
	assert.Equal(t, "panflow110", ProductName("panflow-110"))
	assert.Equal(t, ProductName("Panflow 110"), ProductName("panflow-110"))
	assert.Equal(t, "pncoat", ProductName("P.N-Coat"))
	assert.Equal(t, "", ProductName(""))
	assert.Equal(t, "", ProductName("nan"))
	assert.Equal(t, "", ProductName("-- !!"))
	// персидские буквы и цифры остаются
	assert.Equal(t, "چسب110", ProductName("چسب ۱۱۰"))
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+989123456789", "09123456789"},
		{"09123456789", "09123456789"},
		{"0912-345-6789", "09123456789"},
		{"۰۹۱۲۳۴۵۶۷۸۹", "09123456789"},
		{"021 1234 5678", "02112345678"},
		{"98912", "98912"}, // слишком коротко для кода страны
		{"nan", ""},
		{"", ""},
		{"بدون شماره", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.in), "Phone(%q)", tt.in)
	}
}

func TestExtractPhones(t *testing.T) {
	text := "تماس: 09123456789 یا +989351112233 دفتر 021-12345678"
	got := ExtractPhones(text)
	assert.Contains(t, got, "09123456789")
	assert.Contains(t, got, "+989351112233")
	assert.Contains(t, got, "021-12345678")

	// дедупликация
	got = ExtractPhones("09123456789 09123456789")
	assert.Equal(t, []string{"09123456789"}, got)

	assert.Nil(t, ExtractPhones(""))
	assert.Nil(t, ExtractPhones("nan"))
}

func TestFoldDigits(t *testing.T) {
	assert.Equal(t, "1402", FoldDigits("۱۴۰۲"))
	assert.Equal(t, "1402", FoldDigits("١٤٠٢"))
}
