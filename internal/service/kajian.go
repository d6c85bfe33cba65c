package service

import (
	"context"
	"time"

	apperrors "github.com/masjid-annur/dashboard-server-go/internal/errors"
	"github.com/masjid-annur/dashboard-server-go/internal/model"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
)

// SchedulePublisher notifies connected kiosk displays that the schedule
// changed. May be nil when no event feed is wired (tests).
type SchedulePublisher interface {
	PublishScheduleUpdated(ctx context.Context)
}

// KajianService owns the weekly study-session schedule.
type KajianService struct {
	repo   repository.KajianRepository
	events SchedulePublisher
}

func NewKajianService(repo repository.KajianRepository, events SchedulePublisher) *KajianService {
	return &KajianService{repo: repo, events: events}
}

type KajianForm struct {
	Day       string `json:"day" validate:"required"`
	Ustaz     string `json:"ustaz" validate:"required"`
	TimeStart string `json:"timeStart" validate:"required,datetime=15:04"`
	TimeEnd   string `json:"timeEnd" validate:"required,datetime=15:04"`
	Topic     string `json:"topic" validate:"required"`
	Image     string `json:"image"`
}

// List returns all sessions in canonical weekday order, Senin first, then by
// start time within a day.
func (s *KajianService) List(ctx context.Context) ([]model.Kajian, error) {
	sessions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return sessions, nil
}

// ListByDay returns the sessions scheduled for one weekday.
func (s *KajianService) ListByDay(ctx context.Context, day model.Weekday) ([]model.Kajian, error) {
	if !day.Valid() {
		return nil, apperrors.InvalidInput("day", "must be one of Senin..Minggu")
	}
	sessions, err := s.repo.FindByDay(ctx, day)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return sessions, nil
}

func (s *KajianService) Add(ctx context.Context, form KajianForm) (*model.Kajian, error) {
	normalized, err := s.normalize(form)
	if err != nil {
		return nil, err
	}

	kajian, err := s.repo.Create(ctx, model.CreateKajianParams{
		Day:       model.Weekday(normalized.Day),
		Ustaz:     normalized.Ustaz,
		TimeStart: normalized.TimeStart,
		TimeEnd:   normalized.TimeEnd,
		Topic:     normalized.Topic,
		Image:     normalized.Image,
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	s.notify(ctx)
	return kajian, nil
}

func (s *KajianService) Update(ctx context.Context, id string, form KajianForm) (*model.Kajian, error) {
	normalized, err := s.normalize(form)
	if err != nil {
		return nil, err
	}

	kajian, err := s.repo.Update(ctx, id, model.UpdateKajianParams{
		Day:       model.Weekday(normalized.Day),
		Ustaz:     normalized.Ustaz,
		TimeStart: normalized.TimeStart,
		TimeEnd:   normalized.TimeEnd,
		Topic:     normalized.Topic,
		Image:     normalized.Image,
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if kajian == nil {
		return nil, apperrors.NotFound("Kajian")
	}

	s.notify(ctx)
	return kajian, nil
}

// Delete removes a session unconditionally; deleting an id that is already
// gone is not an error.
func (s *KajianService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Storage(err)
	}
	s.notify(ctx)
	return nil
}

func (s *KajianService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *KajianService) CountByDay(ctx context.Context) ([]repository.DayCount, error) {
	return s.repo.CountByDay(ctx)
}

// normalize validates the form, checks the day enum and time ordering, pads
// times to HH:MM, and fills in the placeholder artwork.
func (s *KajianService) normalize(form KajianForm) (KajianForm, error) {
	if err := validateStruct(form); err != nil {
		return form, err
	}

	if !model.Weekday(form.Day).Valid() {
		return form, apperrors.InvalidInput("day", "must be one of Senin..Minggu")
	}

	start, err := time.Parse("15:04", form.TimeStart)
	if err != nil {
		return form, apperrors.InvalidInput("timeStart", "must be a time in HH:MM format")
	}
	end, err := time.Parse("15:04", form.TimeEnd)
	if err != nil {
		return form, apperrors.InvalidInput("timeEnd", "must be a time in HH:MM format")
	}
	if !start.Before(end) {
		return form, apperrors.InvalidInput("timeEnd", "must be after timeStart")
	}

	form.TimeStart = start.Format("15:04")
	form.TimeEnd = end.Format("15:04")

	if form.Image == "" {
		form.Image = model.KajianPlaceholderImage
	}

	return form, nil
}

func (s *KajianService) notify(ctx context.Context) {
	if s.events != nil {
		s.events.PublishScheduleUpdated(ctx)
	}
}
