package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"customer-insight/internal/config"
	"customer-insight/internal/customer/model"
	"customer-insight/internal/customer/service"
)

// Handler держит сессию обработки и транслирует HTTP <-> service.
type Handler struct {
	svc    *service.Session
	cfg    config.Config
	logger zerolog.Logger
}

func New(svc *service.Session, cfg config.Config, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, logger: logger}
}

// Load — multipart-загрузка книги (поле "file"); заменяет данные сессии.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLogger(r)
	defer r.Body.Close()

	if err := r.ParseMultipartForm(200 << 20); err != nil { // 200MB
		httpError(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	headerRow := atoi(r.FormValue("header_row"), 1)
	summary, err := h.svc.LoadWorkbook(file, header.Filename, headerRow)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("load failed")
		h.writeError(w, err)
		return
	}

	log.Info().
		Str("filename", header.Filename).
		Int("sheets", summary.Sheets).
		Int("records", summary.Records).
		Int("customers", summary.Customers).
		Dur("elapsed", time.Since(start)).
		Msg("workbook loaded")
	writeJSON(w, http.StatusOK, summary)
}

// Search — GET /search?q=...&mode=auto|exact|partial|fuzzy&min_score=60
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	mode, ok := model.ParseSearchMode(r.URL.Query().Get("mode"))
	if !ok {
		httpError(w, "unknown mode: "+r.URL.Query().Get("mode"), http.StatusBadRequest)
		return
	}
	minScore := toFloat(r.URL.Query().Get("min_score"), h.cfg.SearchMinScore)

	results, err := h.svc.Search(q, mode, minScore)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"mode":    mode.String(),
		"count":   len(results),
		"results": results,
	})
}

// LostCustomers — POST с JSON-параметрами окон.
func (h *Handler) LostCustomers(w http.ResponseWriter, r *http.Request) {
	q, ok := h.decodeLostQuery(w, r)
	if !ok {
		return
	}
	cands, err := h.svc.FindLost(q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(cands),
		"candidates": cands,
	})
}

// ExportLostCustomers — та же выборка, но файлом: xlsx из двух листов,
// либо плоский CSV при ?csv=1.
func (h *Handler) ExportLostCustomers(w http.ResponseWriter, r *http.Request) {
	q, ok := h.decodeLostQuery(w, r)
	if !ok {
		return
	}
	cands, err := h.svc.FindLost(q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if toBool(r.URL.Query().Get("csv"), false) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="lost_customers.csv"`)
		header, rows := service.LostCandidatesCSV(cands)
		if err := service.WriteCSV(w, header, rows); err != nil {
			log := h.requestLogger(r)
			log.Error().Err(err).Msg("write csv")
		}
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="lost_customers.xlsx"`)
	if err := service.WriteLostCustomersWorkbook(w, cands); err != nil {
		log := h.requestLogger(r)
		log.Error().Err(err).Msg("write workbook")
	}
}

func (h *Handler) decodeLostQuery(w http.ResponseWriter, r *http.Request) (service.LostQuery, bool) {
	defer r.Body.Close()
	var q service.LostQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httpError(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return q, false
	}
	if q.ActiveStart == 0 || q.ActiveEnd == 0 || q.SilentStart == 0 || q.SilentEnd == 0 {
		httpError(w, "active and silent year windows are required", http.StatusBadRequest)
		return q, false
	}
	return q, true
}

// YearlyStats / MonthlyStats / ProductStats / StateStats — плоские агрегаты
// для табличного/графического слоя.
func (h *Handler) YearlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.YearlyStats()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	year := atoi(r.URL.Query().Get("year"), 0)
	if year == 0 {
		httpError(w, "year is required", http.StatusBadRequest)
		return
	}
	stats, err := h.svc.MonthlyStats(year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ProductStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.ProductStats()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) StateStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.StateStats()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Records — полный плоский список записей (порядок приёма).
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Records()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": records,
	})
}

// AddRecord — POST /records, JSON-поля RecordInput.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeRecordInput(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.AddRecord(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord — PUT /records/{id}.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := decodeRecordInput(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.UpdateRecord(id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord — DELETE /records/{id}.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteRecord(id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func decodeRecordInput(w http.ResponseWriter, r *http.Request) (service.RecordInput, bool) {
	defer r.Body.Close()
	var in service.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return in, false
	}
	return in, true
}

func (h *Handler) requestLogger(r *http.Request) zerolog.Logger {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return h.logger.With().Str("req_id", reqID).Logger()
	}
	return h.logger
}
