package model

// SearchMode — стратегия скоринга имени клиента.
type SearchMode int

const (
	ModeAuto SearchMode = iota // tiered: exact -> substring -> keywords -> fuzzy
	ModeExact
	ModePartial
	ModeFuzzy
)

func (m SearchMode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModePartial:
		return "partial"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return "auto"
	}
}

// ParseSearchMode принимает строковое имя режима; пустая строка = auto.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch s {
	case "", "auto":
		return ModeAuto, true
	case "exact":
		return ModeExact, true
	case "partial", "keywords":
		return ModePartial, true
	case "fuzzy":
		return ModeFuzzy, true
	default:
		return ModeAuto, false
	}
}

// Канонические метки статуса заказа (официальный/неофициальный/неизвестно).
// Храним персидские строки как в исходных данных.
const (
	StatusFormal   = "رسمی"
	StatusInformal = "غیررسمی"
	StatusUnknown  = "نامشخص"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Record — одно событие покупки. Year/Month == 0 означает «неизвестно».
type Record struct {
	ID          string   `json:"id"`
	Sheet       string   `json:"sheet_name"`
	Name        string   `json:"customer_name"`
	NameNorm    string   `json:"customer_name_normalized"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	StateRaw    string   `json:"state_raw"`
	State       string   `json:"state"`
	Address     string   `json:"address"`
	Mobile      string   `json:"mobile"`
	Phone       string   `json:"phone"`
	ProductsRaw string   `json:"products_raw"`
	Products    []string `json:"products"`
	ProductKeys []string `json:"product_keys"`

	// Seq — порядок приёма; фиксирует first-seen метки продуктов.
	Seq int `json:"-"`
}

// Aggregate — свёртка всех записей одного клиента (ключ: сырое имя).
type Aggregate struct {
	Name         string
	NameNorm     string
	Keywords     []string // NameNorm, разбитый по пробелам
	Total        int
	Formal       int
	Informal     int
	Years        []int // sorted distinct, без неизвестных
	Months       []int // sorted distinct, без неизвестных
	Mobiles      []string
	Phones       []string
	Addresses    []string
	Products     []string // display-метки, first-seen порядок
	ProductCount int
}

// SearchResult — снимок агрегата на момент скоринга, не живая ссылка.
type SearchResult struct {
	CustomerName      string   `json:"customer_name"`
	Score             float64  `json:"score"`
	TotalPurchases    int      `json:"total_purchases"`
	FormalPurchases   int      `json:"formal_purchases"`
	InformalPurchases int      `json:"informal_purchases"`
	YearsActive       []int    `json:"years_active"`
	MonthsActive      []int    `json:"months_active"`
	MobileNumbers     []string `json:"mobile_numbers"`
	PhoneNumbers      []string `json:"phone_numbers"`
	Addresses         []string `json:"addresses"`
	Products          []string `json:"products"`
	ProductCount      int      `json:"product_count"`
}

// LostCandidate — клиент из активного окна, не найденный в окне тишины.
type LostCandidate struct {
	CustomerName string   `json:"customer_name"`
	LastYear     int      `json:"last_year"`
	LastMonth    int      `json:"last_month"`
	Purchases    int      `json:"purchases"`
	Formal       int      `json:"formal_purchases"`
	Informal     int      `json:"informal_purchases"`
	Mobiles      []string `json:"mobile_numbers"`
	Phones       []string `json:"phone_numbers"`
	Addresses    []string `json:"addresses"`
	Products     []string `json:"products"`
	Priority     string   `json:"priority"` // high | medium | low
}
