package service

import (
	"context"
	"time"

	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
)

// DashboardService assembles everything the kiosk display renders in a
// single payload: today's prayer timetable, the next-prayer countdown, the
// Hijri date, and the kajian schedule.
type DashboardService struct {
	kajian *KajianService
	prayer *PrayerService
	hijri  *HijriService
}

func NewDashboardService(kajian *KajianService, prayer *PrayerService, hijri *HijriService) *DashboardService {
	return &DashboardService{kajian: kajian, prayer: prayer, hijri: hijri}
}

type DashboardSnapshot struct {
	Date        string          `json:"date"`
	Day         model.Weekday   `json:"day"`
	HijriDate   string          `json:"hijriDate"`
	Prayer      *PrayerSchedule `json:"prayer"`
	NextPrayer  *NextPrayer     `json:"nextPrayer"`
	Kajian      []model.Kajian  `json:"kajian"`
	TodayKajian []model.Kajian  `json:"todayKajian"`
}

func (s *DashboardService) Snapshot(ctx context.Context, now time.Time) (*DashboardSnapshot, error) {
	sessions, err := s.kajian.List(ctx)
	if err != nil {
		return nil, err
	}

	today := model.WeekdayOf(now)
	var todaySessions []model.Kajian
	for _, k := range sessions {
		if k.Day == today {
			todaySessions = append(todaySessions, k)
		}
	}

	schedule := s.prayer.Today(ctx, now)

	return &DashboardSnapshot{
		Date:        now.Format("2006-01-02"),
		Day:         today,
		HijriDate:   s.hijri.Today(ctx, now),
		Prayer:      schedule,
		NextPrayer:  Next(now, schedule.Times),
		Kajian:      sessions,
		TodayKajian: todaySessions,
	}, nil
}

// Stats backs the admin dashboard counters.
type Stats struct {
	Admins int                   `json:"admins"`
	Kajian int                   `json:"kajian"`
	ByDay  []repository.DayCount `json:"byDay"`
}

// StatsService aggregates row counts for the admin overview page.
type StatsService struct {
	admins *AdminService
	kajian *KajianService
}

func NewStatsService(admins *AdminService, kajian *KajianService) *StatsService {
	return &StatsService{admins: admins, kajian: kajian}
}

func (s *StatsService) Overview(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	adminCount, err := s.admins.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Admins = adminCount

	kajianCount, err := s.kajian.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Kajian = kajianCount

	byDay, err := s.kajian.CountByDay(ctx)
	if err != nil {
		return nil, err
	}
	stats.ByDay = byDay

	return stats, nil
}
