package service

import (
	"math"
	"sort"
	"strings"

	"customer-insight/internal/customer/model"
	"customer-insight/internal/customer/normalize"
)

// Search — скоринг всех клиентов против запроса, результат отсортирован по
// убыванию балла (при равенстве — по имени). Пустой после trim запрос даёт
// пустой срез, не ошибку. Один клиент — максимум один результат.
func (s *Session) Search(query string, mode model.SearchMode, minScore float64) ([]model.SearchResult, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	q := normalize.Text(query)
	if q == "" {
		return []model.SearchResult{}, nil
	}
	qWords := strings.Fields(q)

	results := make([]model.SearchResult, 0, 16)
	for _, name := range idx.names {
		agg := idx.byName[name]

		var score float64
		switch mode {
		case model.ModeExact:
			if agg.NameNorm == q {
				score = 100
			}
		case model.ModePartial:
			score = s.partialScore(qWords, agg)
		case model.ModeFuzzy:
			score = float64(s.scorer.TokenSetRatio(q, agg.NameNorm))
		default: // ModeAuto
			score = s.autoScore(q, qWords, agg)
		}

		score = round2(score)
		if score < minScore {
			continue
		}
		results = append(results, snapshotResult(agg, score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CustomerName < results[j].CustomerName
	})
	return results, nil
}

// partialScore — доля ключевых слов запроса, являющихся подстрокой хотя бы
// одного ключевого слова клиента.
func (s *Session) partialScore(qWords []string, agg *model.Aggregate) float64 {
	if len(qWords) == 0 {
		return 0
	}
	matched := 0
	for _, w := range qWords {
		for _, kw := range agg.Keywords {
			if strings.Contains(kw, w) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(qWords)) * 100
}

// autoScore — ступенчатый скоринг: точное совпадение 100, подстрока 95,
// иначе перекрытие ключевых слов (literal = 1.0, fuzzy > 85 = 0.8) на шкале
// до 90; если не зацепилось ни одно слово — token-set ratio * 0.8.
func (s *Session) autoScore(q string, qWords []string, agg *model.Aggregate) float64 {
	if agg.NameNorm == q {
		return 100
	}
	if strings.Contains(agg.NameNorm, q) {
		return 95
	}

	sum := 0.0
	for _, w := range qWords {
		best := 0.0
		for _, kw := range agg.Keywords {
			if strings.Contains(kw, w) {
				best = 1.0
				break
			}
			if best < 0.8 && s.scorer.Ratio(w, kw) > 85 {
				best = 0.8
			}
		}
		sum += best
	}
	if sum == 0 {
		return float64(s.scorer.TokenSetRatio(q, agg.NameNorm)) * 0.8
	}
	return sum / float64(len(qWords)) * 90
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
