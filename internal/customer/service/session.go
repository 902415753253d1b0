package service

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"customer-insight/internal/customer/model"
	"customer-insight/internal/fileio"
)

// Options — пороги и стратегия, зафиксированные на время жизни сессии.
type Options struct {
	// Граничные годы приоритетов lost-customer (персидский календарь).
	PriorityHighYear   int
	PriorityMediumYear int
	// Scorer == nil -> DefaultScorer().
	Scorer Scorer
}

// Session владеет набором записей и производным индексом. Любая мутация
// пересобирает индекс целиком и атомарно подменяет указатель; читатели
// работают со снимком и не видят частично построенного состояния.
type Session struct {
	mu      sync.RWMutex
	idx     *index
	scorer  Scorer
	opts    Options
	nextSeq int
}

func NewSession(opts Options) *Session {
	if opts.PriorityHighYear == 0 {
		opts.PriorityHighYear = 1402
	}
	if opts.PriorityMediumYear == 0 {
		opts.PriorityMediumYear = 1401
	}
	sc := opts.Scorer
	if sc == nil {
		sc = DefaultScorer()
	}
	return &Session{scorer: sc, opts: opts}
}

// snapshot — текущий индекс или ErrNotReady до первой загрузки.
func (s *Session) snapshot() (*index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.idx == nil {
		return nil, model.ErrNotReady
	}
	return s.idx, nil
}

// LoadSummary — что реально загрузили (для лога и ответа API).
type LoadSummary struct {
	Sheets    int `json:"sheets"`
	Rows      int `json:"rows"`
	Records   int `json:"records"` // после отбрасывания строк без имени
	Customers int `json:"customers"`
}

// LoadWorkbook читает книгу целиком и ЗАМЕНЯЕТ набор записей сессии.
// Ошибка чтения/пустая книга -> ErrLoad, прежний индекс остаётся нетронутым.
func (s *Session) LoadWorkbook(r io.Reader, filename string, headerRow int) (LoadSummary, error) {
	sheets, err := fileio.ReadWorkbook(r, filename, headerRow)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("%w: %s: %v", model.ErrLoad, filename, err)
	}
	if len(sheets) == 0 {
		return LoadSummary{}, fmt.Errorf("%w: %s: no readable sheets", model.ErrLoad, filename)
	}

	totalRows := 0
	for _, sh := range sheets {
		totalRows += len(sh.Rows)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq = 0
	records := make([]model.Record, 0, totalRows)
	for _, sh := range sheets {
		for _, row := range sh.Rows {
			rec, ok := s.recordFromRow(row, sh.Name)
			if !ok {
				continue
			}
			records = append(records, rec)
		}
	}

	idx := buildIndex(records)
	s.idx = idx

	return LoadSummary{
		Sheets:    len(sheets),
		Rows:      totalRows,
		Records:   len(records),
		Customers: len(idx.names),
	}, nil
}

// Records — копия текущего набора записей в порядке приёма.
func (s *Session) Records() ([]model.Record, error) {
	idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return append([]model.Record(nil), idx.records...), nil
}

// AddRecord — новая запись; работает и на пустой сессии (CRM с нуля).
func (s *Session) AddRecord(in RecordInput) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.recordFromInput(in)
	if err != nil {
		return model.Record{}, err
	}

	var records []model.Record
	if s.idx != nil {
		records = append(records, s.idx.records...)
	}
	records = append(records, rec)
	s.idx = buildIndex(records)
	return rec, nil
}

// UpdateRecord — замена полей записи по стабильному ID.
func (s *Session) UpdateRecord(id string, in RecordInput) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		return model.Record{}, model.ErrNotReady
	}
	pos, ok := s.idx.byID[id]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", model.ErrRecordNotFound, id)
	}

	old := s.idx.records[pos]
	rec, err := s.recordFromInput(in)
	if err != nil {
		return model.Record{}, err
	}
	// ID, порядок и лист сохраняются
	rec.ID = old.ID
	rec.Seq = old.Seq
	if rec.Sheet == "" {
		rec.Sheet = old.Sheet
	}

	records := append([]model.Record(nil), s.idx.records...)
	records[pos] = rec
	s.idx = buildIndex(records)
	return rec, nil
}

// DeleteRecord — удаление по стабильному ID.
func (s *Session) DeleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		return model.ErrNotReady
	}
	pos, ok := s.idx.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrRecordNotFound, id)
	}

	records := append([]model.Record(nil), s.idx.records[:pos]...)
	records = append(records, s.idx.records[pos+1:]...)
	s.idx = buildIndex(records)
	return nil
}

func newRecordID() string { return uuid.NewString() }
