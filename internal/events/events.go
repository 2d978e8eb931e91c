// Package events carries check-in and dose outcomes to collaborators that deliver
// notifications or feed care-team tooling. Delivery itself happens elsewhere.
package events

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

const (
	TypeCheckInFinalized = "checkin.finalized"
	TypeCheckInEmergency = "checkin.emergency"
	TypeDoseDueSoon      = "dose.due_soon"
	TypeDoseMissed       = "dose.missed"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

type CheckInSummary struct {
	CheckInID       string   `json:"check_in_id"`
	OverallWellness int      `json:"overall_wellness"`
	RecoveryScore   int      `json:"recovery_score"`
	RedFlags        []string `json:"red_flags"`
	YellowFlags     []string `json:"yellow_flags"`
	NeedsFollowUp   bool     `json:"needs_follow_up"`
	EmergencyAlert  bool     `json:"emergency_alert"`
}

type DoseReminder struct {
	DoseID        string    `json:"dose_id"`
	Medication    string    `json:"medication"`
	Dosage        string    `json:"dosage"`
	ScheduledTime string    `json:"scheduled_time"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Status        string    `json:"status"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Encode is the wire form shared by every broker-backed publisher.
func Encode(event Event) ([]byte, error) {
	return sonic.ConfigStd.Marshal(event)
}

// Key partitions events by user so one user's events stay ordered.
func Key(event Event) []byte {
	return []byte(strconv.FormatUint(uint64(event.UserID), 10))
}
