package service

import (
	"sort"
	"strings"

	"customer-insight/internal/customer/model"
)

// index — полный снимок производных данных. Никогда не мутируется после
// построения: любое изменение записей собирает новый index, который
// атомарно подменяет старый (rebuild-and-swap).
type index struct {
	records []model.Record
	byID    map[string]int              // RecordID -> позиция в records
	byName  map[string]*model.Aggregate // сырое имя клиента -> агрегат
	names   []string                    // ключи byName, отсортированы для детерминизма

	// канонический ключ продукта -> display-метка первого вхождения
	productLabels map[string]string
}

// aggState — рабочее состояние одной группы при сборке.
type aggState struct {
	agg       *model.Aggregate
	years     map[int]struct{}
	months    map[int]struct{}
	mobiles   map[string]struct{}
	phones    map[string]struct{}
	addresses map[string]struct{}
	products  map[string]struct{} // канонические ключи
}

// buildIndex — группировка по сырому имени, один проход по записям.
// Записи уже отсортированы по Seq, поэтому first-seen метки продуктов
// детерминированы для фиксированного порядка входа.
func buildIndex(records []model.Record) *index {
	idx := &index{
		records:       records,
		byID:          make(map[string]int, len(records)),
		byName:        make(map[string]*model.Aggregate),
		productLabels: make(map[string]string),
	}

	states := make(map[string]*aggState)

	for i, r := range records {
		idx.byID[r.ID] = i

		st, ok := states[r.Name]
		if !ok {
			st = &aggState{
				agg: &model.Aggregate{
					Name:     r.Name,
					NameNorm: r.NameNorm,
					Keywords: strings.Fields(r.NameNorm),
				},
				years:     make(map[int]struct{}),
				months:    make(map[int]struct{}),
				mobiles:   make(map[string]struct{}),
				phones:    make(map[string]struct{}),
				addresses: make(map[string]struct{}),
				products:  make(map[string]struct{}),
			}
			states[r.Name] = st
			idx.byName[r.Name] = st.agg
		}

		st.agg.Total++
		switch r.State {
		case model.StatusFormal:
			st.agg.Formal++
		case model.StatusInformal:
			st.agg.Informal++
		}

		if r.Year != 0 {
			if _, ok := st.years[r.Year]; !ok {
				st.years[r.Year] = struct{}{}
				st.agg.Years = append(st.agg.Years, r.Year)
			}
		}
		if r.Month != 0 {
			if _, ok := st.months[r.Month]; !ok {
				st.months[r.Month] = struct{}{}
				st.agg.Months = append(st.agg.Months, r.Month)
			}
		}

		addUnique(&st.agg.Mobiles, st.mobiles, r.Mobile)
		addUnique(&st.agg.Phones, st.phones, r.Phone)
		addUnique(&st.agg.Addresses, st.addresses, r.Address)

		for pi, key := range r.ProductKeys {
			if key == "" {
				continue
			}
			if _, ok := idx.productLabels[key]; !ok {
				idx.productLabels[key] = r.Products[pi]
			}
			if _, ok := st.products[key]; !ok {
				st.products[key] = struct{}{}
				st.agg.Products = append(st.agg.Products, idx.productLabels[key])
				st.agg.ProductCount++
			}
		}
	}

	for name, st := range states {
		sort.Ints(st.agg.Years)
		sort.Ints(st.agg.Months)
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)

	return idx
}

// пустые и "nan" не тащим в контакты/адреса
func addUnique(dst *[]string, seen map[string]struct{}, v string) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return
	}
	if _, ok := seen[v]; ok {
		return
	}
	seen[v] = struct{}{}
	*dst = append(*dst, v)
}

// snapshotResult — копия агрегата в SearchResult (снимок, не живая ссылка).
func snapshotResult(agg *model.Aggregate, score float64) model.SearchResult {
	return model.SearchResult{
		CustomerName:      agg.Name,
		Score:             score,
		TotalPurchases:    agg.Total,
		FormalPurchases:   agg.Formal,
		InformalPurchases: agg.Informal,
		YearsActive:       append([]int(nil), agg.Years...),
		MonthsActive:      append([]int(nil), agg.Months...),
		MobileNumbers:     append([]string(nil), agg.Mobiles...),
		PhoneNumbers:      append([]string(nil), agg.Phones...),
		Addresses:         append([]string(nil), agg.Addresses...),
		Products:          append([]string(nil), agg.Products...),
		ProductCount:      agg.ProductCount,
	}
}
