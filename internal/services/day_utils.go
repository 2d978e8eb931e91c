package services

import (
	"errors"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid day")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return DateAtLocation(parsed, location), nil
}

func FormatDay(value time.Time) string {
	return value.Format(dayLayout)
}
