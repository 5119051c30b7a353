package measurements

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"baby-health-tracker/internal/domain/babies"
	"baby-health-tracker/internal/domain/caregivers"
	"baby-health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, babiesSvc *babies.Service) {
	r.Route("/babies/{babyID}/measurements", func(mr chi.Router) {
		mr.Post("/", createMeasurementHandler(svc, babiesSvc))
		mr.Get("/", listMeasurementsHandler(svc, babiesSvc))
		mr.Get("/chart", chartHandler(svc, babiesSvc))
		mr.Get("/export.xlsx", exportHandler(svc, babiesSvc))
	})
}

type createMeasurementRequest struct {
	Type  Type    `json:"type" enums:"height,weight,head_circumference"`
	Value float64 `json:"value"`
	Date  string  `json:"date"` // YYYY-MM-DD o RFC3339
}

type measurementResponse struct {
	ID         string    `json:"id"`
	BabyID     string    `json:"baby_id"`
	Type       Type      `json:"type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Date       time.Time `json:"date"`
	RecordedBy string    `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// chartPoint: value null = bucket sin registro
type chartPoint struct {
	Label string   `json:"label"`
	From  string   `json:"from"`
	To    string   `json:"to"`
	Value *float64 `json:"value"`
}

type chartResponse struct {
	BabyID string       `json:"baby_id"`
	Type   Type         `json:"type"`
	Span   Span         `json:"span"`
	Unit   string       `json:"unit"`
	Points []chartPoint `json:"points"`
}

// createMeasurementHandler godoc
// @Summary Registrar medición
// @Description Registra altura, peso o perímetro cefálico. El parent siempre puede; un caregiver necesita `measurements:write`.
// @Tags measurements
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Param payload body createMeasurementRequest true "value > 0; date no futura"
// @Success 201 {object} measurementResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "baby not found"
// @Router /babies/{babyID}/measurements [post]
func createMeasurementHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, uid, ok := authorize(w, r, babiesSvc, caregivers.ScopeMeasurementsWrite)
		if !ok {
			return
		}

		var req createMeasurementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		d, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		m, err := svc.Record(r.Context(), b.ID, uid, RecordInput{Type: req.Type, Value: req.Value, Date: d})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMeasurementResponse(m))
	}
}

func listMeasurementsHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _, ok := authorize(w, r, babiesSvc, caregivers.ScopeMeasurementsRead)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), b.ID, Type(strings.TrimSpace(r.URL.Query().Get("type"))))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]measurementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMeasurementResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// chartHandler godoc
// @Summary Gráfico de mediciones
// @Description Agrupa las mediciones de un tipo en buckets (week: 7 días, month: 4 semanas, six_months / year: meses) y devuelve la más reciente de cada uno. Buckets vacíos devuelven value null.
// @Tags measurements
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Param type query string true "height, weight o head_circumference"
// @Param span query string false "week (default), month, six_months, year"
// @Success 200 {object} chartResponse
// @Failure 400 {string} string "type/span inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "baby not found"
// @Router /babies/{babyID}/measurements/chart [get]
func chartHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _, ok := authorize(w, r, babiesSvc, caregivers.ScopeMeasurementsRead)
		if !ok {
			return
		}

		q := r.URL.Query()
		typ := Type(strings.TrimSpace(q.Get("type")))
		span, err := ParseSpan(strings.TrimSpace(q.Get("span")))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		buckets, err := svc.Chart(r.Context(), b.ID, typ, span)
		if err != nil {
			writeError(w, err)
			return
		}

		out := chartResponse{
			BabyID: b.ID,
			Type:   typ,
			Span:   span,
			Unit:   typ.Unit(),
			Points: make([]chartPoint, 0, len(buckets)),
		}
		for _, bk := range buckets {
			p := chartPoint{
				Label: bk.Label,
				From:  bk.Start.Format("2006-01-02"),
				To:    bk.End.AddDate(0, 0, -1).Format("2006-01-02"),
			}
			if !bk.Empty() {
				v := bk.Value
				p.Value = &v
			}
			out.Points = append(out.Points, p)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func exportHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _, ok := authorize(w, r, babiesSvc, caregivers.ScopeMeasurementsRead)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), b.ID, "")
		if err != nil {
			writeError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := WriteXLSX(&buf, b.Name, items); err != nil {
			http.Error(w, "failed to build spreadsheet", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="measurements-`+b.ID+`.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func authorize(w http.ResponseWriter, r *http.Request, babiesSvc *babies.Service, scope caregivers.Scope) (babies.Baby, string, bool) {
	uid := middleware.UserID(r.Context())
	if uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return babies.Baby{}, "", false
	}
	b, err := babiesSvc.Authorize(r.Context(), chi.URLParam(r, "babyID"), uid, scope)
	if err != nil {
		writeError(w, err)
		return babies.Baby{}, "", false
	}
	return b, uid, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, babies.ErrNotFound):
		http.Error(w, "baby not found", http.StatusNotFound)
	case errors.Is(err, babies.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMeasurementResponse(m Record) measurementResponse {
	return measurementResponse{
		ID:         m.ID,
		BabyID:     m.BabyID,
		Type:       m.Type,
		Value:      m.Value,
		Unit:       m.Type.Unit(),
		Date:       m.Date,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
