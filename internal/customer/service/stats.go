package service

import (
	"sort"

	"customer-insight/internal/customer/model"
)

// YearStat — агрегат одного года.
type YearStat struct {
	Year      int `json:"year"`
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
	Formal    int `json:"formal_orders"`
	Informal  int `json:"informal_orders"`
	Unknown   int `json:"unknown_orders"`
}

// YearlyStats — group-by по году; записи с неизвестным годом не попадают.
func (s *Session) YearlyStats() ([]YearStat, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*YearStat)
	customers := make(map[int]map[string]struct{})
	for _, r := range idx.records {
		if r.Year == 0 {
			continue
		}
		st, ok := byYear[r.Year]
		if !ok {
			st = &YearStat{Year: r.Year}
			byYear[r.Year] = st
			customers[r.Year] = make(map[string]struct{})
		}
		st.Orders++
		customers[r.Year][r.Name] = struct{}{}
		switch r.State {
		case model.StatusFormal:
			st.Formal++
		case model.StatusInformal:
			st.Informal++
		default:
			st.Unknown++
		}
	}

	out := make([]YearStat, 0, len(byYear))
	for y, st := range byYear {
		st.Customers = len(customers[y])
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// MonthStat — агрегат месяца внутри выбранного года.
type MonthStat struct {
	Month    int `json:"month"`
	Orders   int `json:"orders"`
	Formal   int `json:"formal_orders"`
	Informal int `json:"informal_orders"`
}

func (s *Session) MonthlyStats(year int) ([]MonthStat, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]*MonthStat)
	for _, r := range idx.records {
		if r.Year != year || r.Month == 0 {
			continue
		}
		st, ok := byMonth[r.Month]
		if !ok {
			st = &MonthStat{Month: r.Month}
			byMonth[r.Month] = st
		}
		st.Orders++
		switch r.State {
		case model.StatusFormal:
			st.Formal++
		case model.StatusInformal:
			st.Informal++
		}
	}

	out := make([]MonthStat, 0, len(byMonth))
	for _, st := range byMonth {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// ProductStat — продажи по каноническому ключу продукта. Label — первый
// встреченный сырой вариант написания.
type ProductStat struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (s *Session) ProductStats() ([]ProductStat, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range idx.records {
		for _, key := range r.ProductKeys {
			if key != "" {
				counts[key]++
			}
		}
	}

	out := make([]ProductStat, 0, len(counts))
	for key, n := range counts {
		out = append(out, ProductStat{Key: key, Label: idx.productLabels[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// StateStat — распределение по нормализованному статусу заказа.
type StateStat struct {
	State     string `json:"state"`
	Orders    int    `json:"orders"`
	Customers int    `json:"customers"`
	Products  int    `json:"products"`
}

func (s *Session) StateStats() ([]StateStat, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	type acc struct {
		orders    int
		customers map[string]struct{}
		products  int
	}
	byState := make(map[string]*acc)
	for _, r := range idx.records {
		a, ok := byState[r.State]
		if !ok {
			a = &acc{customers: make(map[string]struct{})}
			byState[r.State] = a
		}
		a.orders++
		a.customers[r.Name] = struct{}{}
		a.products += len(r.ProductKeys)
	}

	// фиксированный порядок вывода
	out := make([]StateStat, 0, 3)
	for _, state := range []string{model.StatusFormal, model.StatusInformal, model.StatusUnknown} {
		a, ok := byState[state]
		if !ok {
			continue
		}
		out = append(out, StateStat{
			State:     state,
			Orders:    a.orders,
			Customers: len(a.customers),
			Products:  a.products,
		})
	}
	return out, nil
}
