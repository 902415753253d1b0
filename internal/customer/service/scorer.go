package service

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scorer — подключаемая стратегия нечёткой схожести (шкала 0..100).
// Формулы не прибиты гвоздями к конкретной библиотеке: сценарии в тестах
// фиксируют поведение, а не бит-в-бит значения.
type Scorer interface {
	// TokenSetRatio — схожесть без учёта порядка токенов.
	TokenSetRatio(a, b string) int
	// Ratio — посимвольная схожесть пары строк.
	Ratio(a, b string) int
}

type fuzzyScorer struct{}

func (fuzzyScorer) TokenSetRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.TokenSetRatio(a, b)
}

func (fuzzyScorer) Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.Ratio(a, b)
}

// DefaultScorer — порт fuzzywuzzy; совпадает с тем, чем считали исходные данные.
func DefaultScorer() Scorer { return fuzzyScorer{} }
