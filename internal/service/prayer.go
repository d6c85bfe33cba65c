package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	redisclient "github.com/masjid-annur/dashboard-server-go/internal/redis"
)

// Prayer names in daily order, as displayed on the kiosk.
var prayerNames = []string{"Imsak", "Subuh", "Syuruq", "Dzuhur", "Ashar", "Maghrib", "Isya"}

// fallbackPrayerTimes is shown when the upstream API is unreachable.
var fallbackPrayerTimes = []string{"04:15", "04:25", "05:42", "12:03", "15:28", "18:18", "19:32"}

type PrayerTime struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

type PrayerSchedule struct {
	Date     string       `json:"date"`
	Location string       `json:"location"`
	Times    []PrayerTime `json:"times"`
	Source   string       `json:"source"`
}

const (
	PrayerSourceAPI      = "api"
	PrayerSourceFallback = "fallback"
)

type NextPrayer struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// PrayerService fetches the daily timetable from the myquran API, caching one
// day per location in Redis.
type PrayerService struct {
	client       *http.Client
	cache        *redisclient.Client
	baseURL      string
	locationCode string
}

func NewPrayerService(cache *redisclient.Client, baseURL, locationCode string) *PrayerService {
	return &PrayerService{
		client:       &http.Client{Timeout: 10 * time.Second},
		cache:        cache,
		baseURL:      baseURL,
		locationCode: locationCode,
	}
}

// myquranResponse mirrors /v2/sholat/jadwal/{location}/{y}/{m}/{d}.
type myquranResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Jadwal struct {
			Imsak   string `json:"imsak"`
			Subuh   string `json:"subuh"`
			Terbit  string `json:"terbit"`
			Dzuhur  string `json:"dzuhur"`
			Ashar   string `json:"ashar"`
			Maghrib string `json:"maghrib"`
			Isya    string `json:"isya"`
		} `json:"jadwal"`
	} `json:"data"`
}

// Today returns the prayer timetable for the given wall-clock day. Upstream
// failures degrade to the fixed fallback schedule rather than an error, so
// an unattended display never goes blank.
func (s *PrayerService) Today(ctx context.Context, now time.Time) *PrayerSchedule {
	date := now.Format("2006-01-02")

	if cached := s.fromCache(ctx, date); cached != nil {
		return cached
	}

	schedule, err := s.fetch(ctx, now)
	if err != nil {
		log.Error().Err(err).Str("location", s.locationCode).Msg("prayer times fetch failed, using fallback")
		return s.fallback(date)
	}

	s.toCache(ctx, date, schedule, now)
	return schedule
}

func (s *PrayerService) fetch(ctx context.Context, now time.Time) (*PrayerSchedule, error) {
	url := fmt.Sprintf("%s/sholat/jadwal/%s/%04d/%02d/%02d",
		s.baseURL, s.locationCode, now.Year(), int(now.Month()), now.Day())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload myquranResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if !payload.Status {
		return nil, fmt.Errorf("api reported failure")
	}

	j := payload.Data.Jadwal
	times := []string{j.Imsak, j.Subuh, j.Terbit, j.Dzuhur, j.Ashar, j.Maghrib, j.Isya}

	schedule := &PrayerSchedule{
		Date:     now.Format("2006-01-02"),
		Location: s.locationCode,
		Source:   PrayerSourceAPI,
	}
	for i, name := range prayerNames {
		if times[i] == "" {
			return nil, fmt.Errorf("api response missing %s", name)
		}
		schedule.Times = append(schedule.Times, PrayerTime{Name: name, Time: times[i]})
	}
	return schedule, nil
}

func (s *PrayerService) fallback(date string) *PrayerSchedule {
	schedule := &PrayerSchedule{
		Date:     date,
		Location: s.locationCode,
		Source:   PrayerSourceFallback,
	}
	for i, name := range prayerNames {
		schedule.Times = append(schedule.Times, PrayerTime{Name: name, Time: fallbackPrayerTimes[i]})
	}
	return schedule
}

func (s *PrayerService) fromCache(ctx context.Context, date string) *PrayerSchedule {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, redisclient.PrayerCacheKey(s.locationCode, date)).Bytes()
	if err != nil {
		return nil
	}
	var schedule PrayerSchedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil
	}
	return &schedule
}

func (s *PrayerService) toCache(ctx context.Context, date string, schedule *PrayerSchedule, now time.Time) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(schedule)
	if err != nil {
		return
	}
	// The timetable is fixed for the day; expire at local midnight.
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if err := s.cache.Set(ctx, redisclient.PrayerCacheKey(s.locationCode, date), data, time.Until(midnight)).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache prayer times")
	}
}

// Next finds the first prayer after now, wrapping to tomorrow's first prayer
// once the day is over.
func Next(now time.Time, times []PrayerTime) *NextPrayer {
	if len(times) == 0 {
		return nil
	}

	for _, pt := range times {
		t, err := time.ParseInLocation("15:04", pt.Time, now.Location())
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if at.After(now) {
			return &NextPrayer{
				Name:      pt.Name,
				Time:      pt.Time,
				Remaining: formatRemaining(at.Sub(now)),
			}
		}
	}

	// Past the last prayer of the day: the next one is tomorrow's first.
	first := times[0]
	t, err := time.ParseInLocation("15:04", first.Time, now.Location())
	if err != nil {
		return nil
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()).AddDate(0, 0, 1)
	return &NextPrayer{
		Name:      first.Name,
		Time:      first.Time,
		Remaining: formatRemaining(at.Sub(now)),
	}
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%d menit", minutes)
	}
	return fmt.Sprintf("%d jam %d menit", hours, minutes)
}
