package services

import "time"

type DoseStatus string

const (
	DoseStatusTaken    DoseStatus = "taken"
	DoseStatusMissed   DoseStatus = "missed"
	DoseStatusDueSoon  DoseStatus = "due-soon"
	DoseStatusUpcoming DoseStatus = "upcoming"
)

// DueSoonWindow is how far ahead of its scheduled time an untaken dose counts as due soon.
const DueSoonWindow = 30 * time.Minute

// ResolveDoseStatus derives the state of a single dose at now. A dose that reaches its
// scheduled time untaken is missed; the boundary belongs to the past.
func ResolveDoseStatus(scheduledAt time.Time, taken bool, now time.Time) DoseStatus {
	if taken {
		return DoseStatusTaken
	}
	if !now.Before(scheduledAt) {
		return DoseStatusMissed
	}
	if scheduledAt.Sub(now) <= DueSoonWindow {
		return DoseStatusDueSoon
	}
	return DoseStatusUpcoming
}
