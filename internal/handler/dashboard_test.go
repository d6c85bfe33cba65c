package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
)

func newDashboardHandler(kajianRepo *mockKajianRepo) *DashboardHandler {
	kajian := service.NewKajianService(kajianRepo, nil)
	// Unreachable upstreams exercise the fallback paths.
	prayer := service.NewPrayerService(nil, "http://127.0.0.1:1", "1225")
	hijri := service.NewHijriService(nil, "http://127.0.0.1:1")
	dashboard := service.NewDashboardService(kajian, prayer, hijri)
	return NewDashboardHandler(dashboard, kajian, prayer, hijri)
}

func TestDashboardHandler_Dashboard(t *testing.T) {
	image := model.KajianPlaceholderImage
	repo := &mockKajianRepo{
		findAllFunc: func(ctx context.Context) ([]model.Kajian, error) {
			return []model.Kajian{
				{ID: "1", Day: model.WeekdaySenin, Ustaz: "Ust. Ahmad", TimeStart: "18:30", TimeEnd: "20:00", Topic: "Tafsir", Image: &image},
			}, nil
		},
	}
	h := newDashboardHandler(repo)

	rec := doJSON(h.Routes(), http.MethodGet, "/dashboard", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"hijriDate":"23 Muharram 1447 H"`)
	assert.Contains(t, body, `"source":"fallback"`)
	assert.Contains(t, body, "Tafsir")
	assert.Contains(t, body, "nextPrayer")
}

func TestDashboardHandler_ListKajian_DayFilter(t *testing.T) {
	repo := &mockKajianRepo{
		findByDayFunc: func(ctx context.Context, day model.Weekday) ([]model.Kajian, error) {
			assert.Equal(t, model.WeekdayJumat, day)
			return []model.Kajian{{ID: "1", Day: day, Topic: "Khutbah"}}, nil
		},
	}
	h := newDashboardHandler(repo)

	rec := doJSON(h.Routes(), http.MethodGet, "/kajian?day=Jumat", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Khutbah")

	rec = doJSON(h.Routes(), http.MethodGet, "/kajian?day=Friday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_PrayerTimes(t *testing.T) {
	h := newDashboardHandler(&mockKajianRepo{})

	rec := doJSON(h.Routes(), http.MethodGet, "/prayer-times", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Imsak")
	assert.Contains(t, body, "Isya")
	assert.Contains(t, body, "nextPrayer")
}

func TestDashboardHandler_HijriDate(t *testing.T) {
	h := newDashboardHandler(&mockKajianRepo{})

	rec := doJSON(h.Routes(), http.MethodGet, "/hijri-date", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "23 Muharram 1447 H")
}
