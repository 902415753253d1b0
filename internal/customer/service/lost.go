package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"customer-insight/internal/customer/model"
)

// LostQuery — параметры поиска потерянных клиентов. Окна лет применяются
// независимо; пересечение окон на совести вызывающего.
type LostQuery struct {
	ActiveStart int `json:"active_start"`
	ActiveEnd   int `json:"active_end"`
	SilentStart int `json:"silent_start"`
	SilentEnd   int `json:"silent_end"`

	// MinKeywordMatch — минимальный суммарный балл совпадения ключевых слов,
	// при котором клиент считается «всё ещё встречающимся». Default 2.
	MinKeywordMatch float64 `json:"min_keyword_match"`
	// SimilarityThreshold — порог посимвольной схожести пары слов (0..100). Default 85.
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// MinPurchaseCount — отсечка малоактивных клиентов. Default 1.
	MinPurchaseCount int `json:"min_purchase_count"`
}

func (q *LostQuery) defaults() {
	if q.MinKeywordMatch <= 0 {
		q.MinKeywordMatch = 2
	}
	if q.SimilarityThreshold <= 0 {
		q.SimilarityThreshold = 85
	}
	if q.MinPurchaseCount <= 0 {
		q.MinPurchaseCount = 1
	}
}

// Генеративные корпоративные слова и связки: не несут различительной силы
// при сопоставлении имён между окнами.
var lostStopwords = map[string]struct{}{
	"شرکت":    {},
	"گروه":    {},
	"صنایع":   {},
	"صنعتی":   {},
	"تولیدی":  {},
	"بازرگانی": {},
	"مهندسی":  {},
	"خدمات":   {},
	"تجاری":   {},
	"کارخانه": {},
	"موسسه":   {},
	"سهامی":   {},
	"خاص":     {},
	"عام":     {},
	"آقای":    {},
	"خانم":    {},
	"جناب":    {},
	"و":       {},
	"در":      {},
	"از":      {},
	"با":      {},
	"به":      {},
	"برای":    {},
}

// lostKeywords — ключевые слова нормализованного имени без стоп-слов;
// слова короче 3 рун выбрасываются.
func lostKeywords(nameNorm string) []string {
	var out []string
	for _, w := range strings.Fields(nameNorm) {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		if _, stop := lostStopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// activeGroup — свёртка клиента по активному окну.
type activeGroup struct {
	name      string
	nameNorm  string
	lastYear  int
	lastMonth int
	count     int
	formal    int
	informal  int
	mobiles   []string
	phones    []string
	addresses []string
	products  []string

	seenMobile  map[string]struct{}
	seenPhone   map[string]struct{}
	seenAddr    map[string]struct{}
	seenProduct map[string]struct{}
}

// FindLost — клиенты активного окна, не встречающиеся (даже под похожим
// именем) ни в одном имени окна тишины. Отсортировано по числу покупок.
func (s *Session) FindLost(q LostQuery) ([]model.LostCandidate, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	q.defaults()

	// 1-2) активное окно: группировка и отсечка по числу покупок
	groups := make(map[string]*activeGroup)
	var order []string
	silentNorms := make(map[string]struct{})
	var silentNames []string

	for _, r := range idx.records {
		if r.Year >= q.ActiveStart && r.Year <= q.ActiveEnd && r.Year != 0 {
			g, ok := groups[r.Name]
			if !ok {
				g = &activeGroup{
					name:        r.Name,
					nameNorm:    r.NameNorm,
					seenMobile:  make(map[string]struct{}),
					seenPhone:   make(map[string]struct{}),
					seenAddr:    make(map[string]struct{}),
					seenProduct: make(map[string]struct{}),
				}
				groups[r.Name] = g
				order = append(order, r.Name)
			}
			g.count++
			switch r.State {
			case model.StatusFormal:
				g.formal++
			case model.StatusInformal:
				g.informal++
			}
			if r.Year > g.lastYear || (r.Year == g.lastYear && r.Month > g.lastMonth) {
				g.lastYear = r.Year
				g.lastMonth = r.Month
			}
			addUnique(&g.mobiles, g.seenMobile, r.Mobile)
			addUnique(&g.phones, g.seenPhone, r.Phone)
			addUnique(&g.addresses, g.seenAddr, r.Address)
			for pi, key := range r.ProductKeys {
				if key == "" {
					continue
				}
				if _, ok := g.seenProduct[key]; !ok {
					g.seenProduct[key] = struct{}{}
					g.products = append(g.products, r.Products[pi])
				}
			}
		}
		if r.Year >= q.SilentStart && r.Year <= q.SilentEnd && r.Year != 0 {
			if _, ok := silentNorms[r.NameNorm]; !ok {
				silentNorms[r.NameNorm] = struct{}{}
				silentNames = append(silentNames, r.NameNorm)
			}
		}
	}

	// 3-4) ключевые слова обеих сторон
	silentKeywords := make([][]string, len(silentNames))
	for i, n := range silentNames {
		silentKeywords[i] = lostKeywords(n)
	}

	var out []model.LostCandidate
	for _, name := range order {
		g := groups[name]
		if g.count < q.MinPurchaseCount {
			continue
		}

		// идентичное нормализованное имя в окне тишины — точно не потерян
		if _, ok := silentNorms[g.nameNorm]; ok {
			continue
		}

		// 5) нечёткое сопоставление ключевых слов
		kw := lostKeywords(g.nameNorm)
		need := q.MinKeywordMatch
		if n := float64(len(kw)); n > 0 && n < need {
			// короткие имена: требовать больше слов, чем есть, нельзя
			need = n
		}
		if len(kw) > 0 && stillPresent(kw, silentKeywords, need, q.SimilarityThreshold, s.scorer) {
			continue
		}

		// 6) кандидат
		out = append(out, model.LostCandidate{
			CustomerName: g.name,
			LastYear:     g.lastYear,
			LastMonth:    g.lastMonth,
			Purchases:    g.count,
			Formal:       g.formal,
			Informal:     g.informal,
			Mobiles:      g.mobiles,
			Phones:       g.phones,
			Addresses:    g.addresses,
			Products:     g.products,
			Priority:     s.priority(g.count, g.lastYear),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Purchases != out[j].Purchases {
			return out[i].Purchases > out[j].Purchases
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	return out, nil
}

func stillPresent(active []string, silentSets [][]string, need, thr float64, sc Scorer) bool {
	for _, silent := range silentSets {
		if keywordMatchScore(active, silent, thr, sc) >= need {
			return true
		}
	}
	return false
}

// keywordMatchScore — жадное паросочетание один-к-одному: literal-совпадение
// даёт 1.0 и потребляется сразу; иначе лучший fuzzy-кандидат с ratio >= thr
// даёт ratio/100. Каждое слово окна тишины расходуется максимум один раз.
func keywordMatchScore(active, silent []string, thr float64, sc Scorer) float64 {
	used := make([]bool, len(silent))
	total := 0.0

	for _, a := range active {
		literal := false
		for i, s := range silent {
			if used[i] {
				continue
			}
			if a == s {
				used[i] = true
				total += 1.0
				literal = true
				break
			}
		}
		if literal {
			continue
		}

		bestIdx := -1
		best := 0.0
		for i, s := range silent {
			if used[i] {
				continue
			}
			if r := float64(sc.Ratio(a, s)); r >= thr && r > best {
				best = r
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			total += best / 100
		}
	}
	return total
}

// 7) приоритет: пороги — константы конфигурации, не выводятся из окна.
func (s *Session) priority(count, lastYear int) string {
	switch {
	case count >= 10 && lastYear >= s.opts.PriorityHighYear:
		return model.PriorityHigh
	case count >= 5 && lastYear >= s.opts.PriorityMediumYear:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
