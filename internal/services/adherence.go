package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/terraincognita07/vitalcheck/internal/models"
)

const (
	fullAdherenceThreshold = 99.9
	optimisticAdherence    = 100.0
)

type MedicationAdherence struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	Name       string    `json:"name"`
	Taken      int       `json:"taken"`
	Total      int       `json:"total"`
	Rate       float64   `json:"rate"`
}

type AdherenceReport struct {
	Medications []MedicationAdherence `json:"medications"`
	Taken       int                   `json:"taken"`
	Total       int                   `json:"total"`
	Rate        float64               `json:"rate"`
	Category    string                `json:"category"`
}

// ComputeAdherence returns the share of taken doses as a percentage with one decimal.
// No doses means nothing was due yet, which counts as full adherence.
func ComputeAdherence(events []models.DoseEvent) float64 {
	if len(events) == 0 {
		return optimisticAdherence
	}
	taken := lo.CountBy(events, func(event models.DoseEvent) bool {
		return event.Taken
	})
	return roundToTenth(float64(taken) / float64(len(events)) * 100)
}

func AdherenceCategoryForRate(rate float64) string {
	switch {
	case rate >= fullAdherenceThreshold:
		return models.AdherenceAll
	case rate <= 0:
		return models.AdherenceNone
	default:
		return models.AdherenceSome
	}
}

// DueDoseEvents keeps doses that already count toward adherence at now:
// anything taken, and anything whose scheduled time has been reached.
func DueDoseEvents(events []models.DoseEvent, now time.Time) []models.DoseEvent {
	return lo.Filter(events, func(event models.DoseEvent, _ int) bool {
		return event.Taken || !now.Before(event.ScheduledAt)
	})
}

// BuildAdherenceReport groups events per schedule and computes every rate from scratch.
func BuildAdherenceReport(schedules []models.MedicationSchedule, events []models.DoseEvent) AdherenceReport {
	names := make(map[uuid.UUID]string, len(schedules))
	for _, schedule := range schedules {
		names[schedule.ID] = schedule.Name
	}

	grouped := lo.GroupBy(events, func(event models.DoseEvent) uuid.UUID {
		return event.ScheduleID
	})

	medications := make([]MedicationAdherence, 0, len(grouped))
	for scheduleID, scheduleEvents := range grouped {
		medications = append(medications, MedicationAdherence{
			ScheduleID: scheduleID,
			Name:       names[scheduleID],
			Taken:      lo.CountBy(scheduleEvents, func(event models.DoseEvent) bool { return event.Taken }),
			Total:      len(scheduleEvents),
			Rate:       ComputeAdherence(scheduleEvents),
		})
	}
	sort.Slice(medications, func(i, j int) bool {
		if medications[i].Name == medications[j].Name {
			return medications[i].ScheduleID.String() < medications[j].ScheduleID.String()
		}
		return medications[i].Name < medications[j].Name
	})

	rate := ComputeAdherence(events)
	return AdherenceReport{
		Medications: medications,
		Taken:       lo.CountBy(events, func(event models.DoseEvent) bool { return event.Taken }),
		Total:       len(events),
		Rate:        rate,
		Category:    AdherenceCategoryForRate(rate),
	}
}

func roundToTenth(value float64) float64 {
	return math.Floor(value*10+0.5+roundingEpsilon) / 10
}
