package services

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultRangeDays = 30
	MaxRangeDays     = 366
)

var (
	ErrRangeFromDateInvalid = errors.New("invalid from date")
	ErrRangeToDateInvalid   = errors.New("invalid to date")
	ErrRangeInvalid         = errors.New("invalid range")
)

// ParseDateRange reads an inclusive from/to query pair. A missing bound falls back to a
// window of defaultDays ending today.
func ParseDateRange(rawFrom string, rawTo string, today time.Time, defaultDays int, location *time.Location) (time.Time, time.Time, error) {
	if defaultDays <= 0 {
		defaultDays = DefaultRangeDays
	}

	to := DateAtLocation(today, location)
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsedTo, err := ParseDay(toRaw, location)
		if err != nil {
			return time.Time{}, time.Time{}, ErrRangeToDateInvalid
		}
		to = parsedTo
	}

	from := to.AddDate(0, 0, -(defaultDays - 1))
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsedFrom, err := ParseDay(fromRaw, location)
		if err != nil {
			return time.Time{}, time.Time{}, ErrRangeFromDateInvalid
		}
		from = parsedFrom
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrRangeInvalid
	}
	if to.Sub(from) > time.Duration(MaxRangeDays)*24*time.Hour {
		return time.Time{}, time.Time{}, ErrRangeInvalid
	}
	return from, to, nil
}
