package model

import "time"

// Weekday is an Indonesian weekday name as stored and displayed.
type Weekday string

const (
	WeekdaySenin  Weekday = "Senin"
	WeekdaySelasa Weekday = "Selasa"
	WeekdayRabu   Weekday = "Rabu"
	WeekdayKamis  Weekday = "Kamis"
	WeekdayJumat  Weekday = "Jumat"
	WeekdaySabtu  Weekday = "Sabtu"
	WeekdayMinggu Weekday = "Minggu"
)

// Weekdays is the canonical Monday-first display order.
var Weekdays = []Weekday{
	WeekdaySenin,
	WeekdaySelasa,
	WeekdayRabu,
	WeekdayKamis,
	WeekdayJumat,
	WeekdaySabtu,
	WeekdayMinggu,
}

func (d Weekday) Valid() bool {
	for _, v := range Weekdays {
		if d == v {
			return true
		}
	}
	return false
}

// Order returns the Monday-first position of the weekday, or -1 if unknown.
func (d Weekday) Order() int {
	for i, v := range Weekdays {
		if d == v {
			return i
		}
	}
	return -1
}

// WeekdayOf maps a wall-clock time to its Indonesian weekday name.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return WeekdaySenin
	case time.Tuesday:
		return WeekdaySelasa
	case time.Wednesday:
		return WeekdayRabu
	case time.Thursday:
		return WeekdayKamis
	case time.Friday:
		return WeekdayJumat
	case time.Saturday:
		return WeekdaySabtu
	default:
		return WeekdayMinggu
	}
}
