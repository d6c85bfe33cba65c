package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
)

// DashboardHandler serves the public, unauthenticated API the kiosk display
// reads from.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	kajianService    *service.KajianService
	prayerService    *service.PrayerService
	hijriService     *service.HijriService
}

func NewDashboardHandler(
	dashboardService *service.DashboardService,
	kajianService *service.KajianService,
	prayerService *service.PrayerService,
	hijriService *service.HijriService,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		kajianService:    kajianService,
		prayerService:    prayerService,
		hijriService:     hijriService,
	}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.Dashboard)
	r.Get("/kajian", h.ListKajian)
	r.Get("/prayer-times", h.PrayerTimes)
	r.Get("/hijri-date", h.HijriDate)

	return r
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardService.Snapshot(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// ListKajian returns the full weekly schedule, optionally filtered with
// ?day=Senin.
func (h *DashboardHandler) ListKajian(w http.ResponseWriter, r *http.Request) {
	if day := r.URL.Query().Get("day"); day != "" {
		sessions, err := h.kajianService.ListByDay(r.Context(), model.Weekday(day))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
		return
	}

	sessions, err := h.kajianService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *DashboardHandler) PrayerTimes(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	schedule := h.prayerService.Today(r.Context(), now)
	writeJSON(w, http.StatusOK, map[string]any{
		"schedule":   schedule,
		"nextPrayer": service.Next(now, schedule.Times),
	})
}

func (h *DashboardHandler) HijriDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"hijriDate": h.hijriService.Today(r.Context(), time.Now()),
	})
}
