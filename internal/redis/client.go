package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// ScheduleChannel carries kiosk refresh events published on schedule changes.
func ScheduleChannel() string {
	return "dashboard:schedule"
}

// PrayerCacheKey keys the prayer timetable for one location and calendar day.
func PrayerCacheKey(locationCode, date string) string {
	return fmt.Sprintf("prayer:%s:%s", locationCode, date)
}

// HijriCacheKey keys the converted Hijri date for one Gregorian day.
func HijriCacheKey(date string) string {
	return fmt.Sprintf("hijri:%s", date)
}
