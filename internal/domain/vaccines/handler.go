package vaccines

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

// RegisterRoutes monta catálogo, schedules, estado y export PDF.
// publicBaseURL arma el link del QR del carnet.
func RegisterRoutes(r chi.Router, svc *Service, babiesSvc *babies.Service, publicBaseURL string) {
	r.Get("/vaccines", catalogHandler())

	r.Route("/babies/{babyID}/vaccines", func(vr chi.Router) {
		vr.Post("/schedules", createScheduleHandler(svc, babiesSvc))
		vr.Get("/schedules", listSchedulesHandler(svc, babiesSvc))
		vr.Patch("/schedules/{scheduleID}", rescheduleHandler(svc, babiesSvc))
		vr.Post("/schedules/{scheduleID}/administer", administerHandler(svc, babiesSvc))
		vr.Delete("/schedules/{scheduleID}", removeScheduleHandler(svc, babiesSvc))

		vr.Get("/status", statusHandler(svc, babiesSvc))
		vr.Get("/record.pdf", recordPDFHandler(svc, babiesSvc, publicBaseURL))
	})
}

type definitionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartWeek   int    `json:"start_week"`
	EndWeek     int    `json:"end_week"`
	Description string `json:"description,omitempty"`
}

type createScheduleRequest struct {
	VaccineID string `json:"vaccine_id"`
	Hospital  string `json:"hospital"`
	Location  string `json:"location"`
	Date      string `json:"date"` // YYYY-MM-DD o RFC3339
}

type rescheduleRequest struct {
	Hospital *string `json:"hospital"`
	Location *string `json:"location"`
	Date     *string `json:"date"`
}

type scheduleResponse struct {
	ID             string     `json:"id"`
	BabyID         string     `json:"baby_id"`
	VaccineID      string     `json:"vaccine_id"`
	Hospital       string     `json:"hospital"`
	Location       string     `json:"location"`
	Date           time.Time  `json:"date"`
	IsAdministered bool       `json:"is_administered"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type statusItemResponse struct {
	Vaccine     definitionResponse `json:"vaccine"`
	State       State              `json:"state" enums:"not_yet_due,due_now,overdue,scheduled,administered"`
	WindowStart string             `json:"window_start"`
	WindowEnd   string             `json:"window_end"`
	Schedule    *scheduleResponse  `json:"schedule,omitempty"`
}

type statusResponse struct {
	BabyID string               `json:"baby_id"`
	Today  string               `json:"today"`
	Counts map[State]int        `json:"counts"`
	Items  []statusItemResponse `json:"items"`
}

// catalogHandler godoc
// @Summary Catálogo de vacunas
// @Description Calendario infantil incorporado, ordenado por ventana recomendada (semanas desde el nacimiento).
// @Tags vaccines
// @Produce json
// @Success 200 {array} definitionResponse
// @Router /vaccines [get]
func catalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := Catalog()
		out := make([]definitionResponse, 0, len(defs))
		for _, d := range defs {
			out = append(out, toDefinitionResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createScheduleHandler godoc
// @Summary Agendar vacuna
// @Description Agenda una vacuna del catálogo para el bebé. El parent siempre puede; un caregiver necesita `vaccines:write`.
// @Tags vaccines
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Param payload body createScheduleRequest true "vaccine_id del catálogo; date YYYY-MM-DD"
// @Success 201 {object} scheduleResponse
// @Failure 400 {string} string "invalid json / vaccine_id desconocido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "baby not found"
// @Router /babies/{babyID}/vaccines/schedules [post]
func createScheduleHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesWrite)
		if !ok {
			return
		}

		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		d, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		sc, err := svc.Schedule(r.Context(), b.ID, ScheduleInput{
			VaccineID: req.VaccineID,
			Hospital:  req.Hospital,
			Location:  req.Location,
			Date:      d,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toScheduleResponse(sc))
	}
}

func listSchedulesHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesRead)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), b.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]scheduleResponse, 0, len(items))
		for _, sc := range items {
			out = append(out, toScheduleResponse(sc))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func rescheduleHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesWrite)
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req rescheduleRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := RescheduleInput{Hospital: req.Hospital, Location: req.Location}
		if req.Date != nil {
			d, err := parseDate(*req.Date)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
				return
			}
			in.Date = &d
		}

		sc, err := svc.Reschedule(r.Context(), b.ID, chi.URLParam(r, "scheduleID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(sc))
	}
}

// administerHandler godoc
// @Summary Marcar vacuna como aplicada
// @Description Idempotente. Requiere `vaccines:write` para caregivers.
// @Tags vaccines
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Param scheduleID path string true "ID del schedule"
// @Success 200 {object} scheduleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /babies/{babyID}/vaccines/schedules/{scheduleID}/administer [post]
func administerHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesWrite)
		if !ok {
			return
		}

		sc, err := svc.Administer(r.Context(), b.ID, chi.URLParam(r, "scheduleID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(sc))
	}
}

func removeScheduleHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesWrite)
		if !ok {
			return
		}

		if err := svc.Remove(r.Context(), b.ID, chi.URLParam(r, "scheduleID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statusHandler godoc
// @Summary Estado de vacunación
// @Description Clasifica cada vacuna del catálogo en not_yet_due, due_now, overdue, scheduled o administered según la fecha de nacimiento y los schedules del bebé.
// @Tags vaccines
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Param today query string false "Fecha de referencia YYYY-MM-DD (por defecto hoy)"
// @Success 200 {object} statusResponse
// @Failure 400 {string} string "today inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "baby not found"
// @Router /babies/{babyID}/vaccines/status [get]
func statusHandler(svc *Service, babiesSvc *babies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesRead)
		if !ok {
			return
		}

		today, ok := parseToday(w, r)
		if !ok {
			return
		}

		rep, err := svc.Status(r.Context(), b.ID, b.DateOfBirth, today)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatusResponse(b.ID, rep))
	}
}

// recordPDFHandler godoc
// @Summary Carnet de vacunación (PDF)
// @Description PDF de layout fijo con el estado de cada vacuna y un QR al endpoint de estado.
// @Tags vaccines
// @Produce application/pdf
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param babyID path string true "ID del bebé"
// @Success 200 {file} file
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "baby not found"
// @Router /babies/{babyID}/vaccines/record.pdf [get]
func recordPDFHandler(svc *Service, babiesSvc *babies.Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := authorize(w, r, babiesSvc, caregivers.ScopeVaccinesRead)
		if !ok {
			return
		}

		today, ok := parseToday(w, r)
		if !ok {
			return
		}

		rep, err := svc.Status(r.Context(), b.ID, b.DateOfBirth, today)
		if err != nil {
			writeError(w, err)
			return
		}

		doc := RecordDocument{
			BabyName:    b.Name,
			DateOfBirth: b.DateOfBirth,
			Gender:      string(b.Gender),
			GeneratedAt: svc.now().UTC(),
			Report:      rep,
		}
		if base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"); base != "" {
			doc.StatusURL = base + "/babies/" + b.ID + "/vaccines/status"
		}

		// se arma en memoria para poder responder 500 si falla
		var buf bytes.Buffer
		if err := WriteRecordPDF(&buf, doc); err != nil {
			http.Error(w, "failed to render pdf", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="vaccination-record-`+b.ID+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func authorize(w http.ResponseWriter, r *http.Request, babiesSvc *babies.Service, scope caregivers.Scope) (babies.Baby, bool) {
	uid := middleware.UserID(r.Context())
	if uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return babies.Baby{}, false
	}
	b, err := babiesSvc.Authorize(r.Context(), chi.URLParam(r, "babyID"), uid, scope)
	if err != nil {
		writeError(w, err)
		return babies.Baby{}, false
	}
	return b, true
}

func parseToday(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("today"))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, "today must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return t, true
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
	case errors.Is(err, ErrInvalidInput), errors.Is(err, babies.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, babies.ErrNotFound):
		http.Error(w, "baby not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "schedule not found", http.StatusNotFound)
	case errors.Is(err, babies.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDefinitionResponse(d Definition) definitionResponse {
	return definitionResponse{
		ID:          d.ID,
		Name:        d.Name,
		StartWeek:   d.StartWeek,
		EndWeek:     d.EndWeek,
		Description: d.Description,
	}
}

func toScheduleResponse(sc Schedule) scheduleResponse {
	return scheduleResponse{
		ID:             sc.ID,
		BabyID:         sc.BabyID,
		VaccineID:      sc.VaccineID,
		Hospital:       sc.Hospital,
		Location:       sc.Location,
		Date:           sc.Date,
		IsAdministered: sc.IsAdministered,
		AdministeredAt: sc.AdministeredAt,
		CreatedAt:      sc.CreatedAt,
		UpdatedAt:      sc.UpdatedAt,
	}
}

func toStatusResponse(babyID string, rep Report) statusResponse {
	out := statusResponse{
		BabyID: babyID,
		Today:  rep.Today.Format("2006-01-02"),
		Counts: rep.Counts,
		Items:  make([]statusItemResponse, 0, len(rep.Items)),
	}
	for _, it := range rep.Items {
		item := statusItemResponse{
			Vaccine:     toDefinitionResponse(it.Vaccine),
			State:       it.State,
			WindowStart: it.WindowStart.Format("2006-01-02"),
			WindowEnd:   it.WindowEnd.Format("2006-01-02"),
		}
		if it.Schedule != nil {
			sr := toScheduleResponse(*it.Schedule)
			item.Schedule = &sr
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// writeJSON duplicado por módulo (ver babies/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
