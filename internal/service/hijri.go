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

// hijriFallback is shown when the converter API is unreachable.
const hijriFallback = "23 Muharram 1447 H"

// HijriService converts the Gregorian date via the aladhan API, caching one
// result per day in Redis.
type HijriService struct {
	client  *http.Client
	cache   *redisclient.Client
	baseURL string
}

func NewHijriService(cache *redisclient.Client, baseURL string) *HijriService {
	return &HijriService{
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		baseURL: baseURL,
	}
}

// aladhanResponse mirrors /v1/gToH/{dd-mm-yyyy}.
type aladhanResponse struct {
	Code int `json:"code"`
	Data struct {
		Hijri struct {
			Day   string `json:"day"`
			Month struct {
				En string `json:"en"`
			} `json:"month"`
			Year string `json:"year"`
		} `json:"hijri"`
	} `json:"data"`
}

// Today returns the Hijri date string for the given day, e.g.
// "12 Safar 1448 H". Failures degrade to a fixed fallback string.
func (s *HijriService) Today(ctx context.Context, now time.Time) string {
	date := now.Format("02-01-2006")

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, redisclient.HijriCacheKey(date)).Result(); err == nil && cached != "" {
			return cached
		}
	}

	hijri, err := s.fetch(ctx, date)
	if err != nil {
		log.Error().Err(err).Msg("hijri date fetch failed, using fallback")
		return hijriFallback
	}

	if s.cache != nil {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		if err := s.cache.Set(ctx, redisclient.HijriCacheKey(date), hijri, time.Until(midnight)).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to cache hijri date")
		}
	}

	return hijri
}

func (s *HijriService) fetch(ctx context.Context, date string) (string, error) {
	url := fmt.Sprintf("%s/gToH/%s", s.baseURL, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload aladhanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Code != http.StatusOK {
		return "", fmt.Errorf("api reported code %d", payload.Code)
	}

	h := payload.Data.Hijri
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return "", fmt.Errorf("incomplete hijri payload")
	}

	return fmt.Sprintf("%s %s %s H", h.Day, h.Month.En, h.Year), nil
}
