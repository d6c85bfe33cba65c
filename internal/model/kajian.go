package model

import (
	"time"
)

// KajianPlaceholderImage is used when a session is saved without artwork.
const KajianPlaceholderImage = "https://images.unsplash.com/photo-1578895151671-7d2e2e89dcf7?q=80&w=735&auto=format&fit=crop"

// Kajian is a weekly recurring study session.
type Kajian struct {
	ID        string    `db:"id" json:"id"`
	Day       Weekday   `db:"day" json:"day"`
	Ustaz     string    `db:"ustaz" json:"ustaz"`
	TimeStart string    `db:"time_start" json:"timeStart"`
	TimeEnd   string    `db:"time_end" json:"timeEnd"`
	Topic     string    `db:"topic" json:"topic"`
	Image     *string   `db:"image" json:"image,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateKajianParams struct {
	Day       Weekday
	Ustaz     string
	TimeStart string
	TimeEnd   string
	Topic     string
	Image     string
}

// UpdateKajianParams is a full-record overwrite keyed by id.
type UpdateKajianParams struct {
	Day       Weekday
	Ustaz     string
	TimeStart string
	TimeEnd   string
	Topic     string
	Image     string
}
