package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-insight/internal/customer/model"
)

func TestFindLostBasic(t *testing.T) {
	s := newTestSession(t, stubScorer{})
	addRecords(t, s, []rec{
		// только активное окно -> потерян
		{name: "فولاد البرز", year: 1400, month: 2, state: "رسمی", mobile: "09121112233", products: "Panflow 110"},
		{name: "فولاد البرز", year: 1402, month: 5, state: "غیررسمی"},
		// оба окна под одним и тем же именем -> не потерян
		{name: "شرکت پانتا", year: 1401, month: 1},
		{name: "شرکت پانتا", year: 1403, month: 6},
		// только окно тишины -> не кандидат по определению
		{name: "مشتری تازه", year: 1404, month: 2},
	})

	lost, err := s.FindLost(LostQuery{ActiveStart: 1393, ActiveEnd: 1402, SilentStart: 1403, SilentEnd: 1404})
	require.NoError(t, err)
	require.Len(t, lost, 1)

	c := lost[0]
	assert.Equal(t, "فولاد البرز", c.CustomerName)
	assert.Equal(t, 1402, c.LastYear)
	assert.Equal(t, 5, c.LastMonth)
	assert.Equal(t, 2, c.Purchases)
	assert.Equal(t, 1, c.Formal)
	assert.Equal(t, 1, c.Informal)
	assert.Equal(t, []string{"09121112233"}, c.Mobiles)
	assert.Equal(t, []string{"Panflow 110"}, c.Products)
	assert.Equal(t, model.PriorityLow, c.Priority)
}

func TestFindLostSimilarNameStillPresent(t *testing.T) {
	s := newTestSession(t, stubScorer{})
	addRecords(t, s, []rec{
		// стоп-слова (شرکت، بازرگانی) не участвуют в сопоставлении;
		// پانتا и تجارت совпадают literal в обоих окнах -> не потерян
		{name: "شرکت پانتا تجارت", year: 1400, month: 3},
		{name: "بازرگانی پانتا تجارت ایران", year: 1403, month: 1},
		// контрольный потерянный
		{name: "فولاد البرز", year: 1400, month: 1},
	})

	lost, err := s.FindLost(LostQuery{ActiveStart: 1393, ActiveEnd: 1402, SilentStart: 1403, SilentEnd: 1404})
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "فولاد البرز", lost[0].CustomerName)
}

// Жадное паросочетание: одно слово окна тишины не может закрыть два слова
// активного имени.
func TestFindLostGreedyNoDoubleCount(t *testing.T) {
	sc := stubScorer{pairs: map[[2]string]int{
		{"pantaflow", "pantaflo"}: 90,
		{"pantaflex", "pantaflo"}: 88,
	}}
	s := newTestSession(t, sc)
	addRecords(t, s, []rec{
		{name: "Pantaflow Pantaflex", year: 1401, month: 2},
		{name: "Pantaflo Co", year: 1403, month: 4},
	})

	// с двойным зачётом вышло бы 0.9 + 0.88 = 1.78 >= 1.5; честный жадный
	// подсчёт даёт 0.9 -> клиент потерян
	lost, err := s.FindLost(LostQuery{
		ActiveStart: 1393, ActiveEnd: 1402,
		SilentStart: 1403, SilentEnd: 1404,
		MinKeywordMatch: 1.5,
	})
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "Pantaflow Pantaflex", lost[0].CustomerName)
}

// Имя короче MinKeywordMatch слов: порог опускается до числа слов, иначе
// клиент с одним ключевым словом был бы потерян даже при literal-совпадении.
func TestFindLostShortNameThreshold(t *testing.T) {
	s := newTestSession(t, stubScorer{})
	addRecords(t, s, []rec{
		{name: "شرکت آریا", year: 1400, month: 1},  // ключевое слово одно: آریا
		{name: "گروه آریا", year: 1403, month: 2},  // literal آریا в окне тишины
		{name: "فولاد البرز", year: 1400, month: 1}, // контрольный потерянный
	})

	lost, err := s.FindLost(LostQuery{ActiveStart: 1393, ActiveEnd: 1402, SilentStart: 1403, SilentEnd: 1404})
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "فولاد البرز", lost[0].CustomerName)
}

func TestFindLostMinPurchaseCount(t *testing.T) {
	s := newTestSession(t, stubScorer{})
	addRecords(t, s, []rec{
		{name: "فولاد البرز", year: 1400, month: 1},
		{name: "فولاد البرز", year: 1401, month: 2},
		{name: "مشتری گذری", year: 1400, month: 5},
	})

	lost, err := s.FindLost(LostQuery{
		ActiveStart: 1393, ActiveEnd: 1402,
		SilentStart: 1403, SilentEnd: 1404,
		MinPurchaseCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "فولاد البرز", lost[0].CustomerName)
}

func TestFindLostPriorityAndOrder(t *testing.T) {
	s := newTestSession(t, stubScorer{})

	recs := []rec{}
	for i := 0; i < 12; i++ {
		recs = append(recs, rec{name: "مشتری طلایی", year: 1402, month: 1 + i%12})
	}
	for i := 0; i < 6; i++ {
		recs = append(recs, rec{name: "مشتری نقره ای", year: 1401, month: 1 + i})
	}
	recs = append(recs,
		rec{name: "مشتری قدیمی", year: 1395, month: 3},
		rec{name: "مشتری قدیمی", year: 1395, month: 7},
	)
	addRecords(t, s, recs)

	lost, err := s.FindLost(LostQuery{ActiveStart: 1393, ActiveEnd: 1402, SilentStart: 1403, SilentEnd: 1404})
	require.NoError(t, err)
	require.Len(t, lost, 3)

	// сортировка по числу покупок по убыванию
	assert.Equal(t, "مشتری طلایی", lost[0].CustomerName)
	assert.Equal(t, model.PriorityHigh, lost[0].Priority)
	assert.Equal(t, "مشتری نقره ای", lost[1].CustomerName)
	assert.Equal(t, model.PriorityMedium, lost[1].Priority)
	assert.Equal(t, "مشتری قدیمی", lost[2].CustomerName)
	assert.Equal(t, model.PriorityLow, lost[2].Priority)
}
