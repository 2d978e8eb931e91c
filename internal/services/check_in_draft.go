package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/vitalcheck/internal/models"
)

var (
	ErrCheckInUserRequired     = errors.New("check-in user is required")
	ErrCheckInDateRequired     = errors.New("check-in date is required")
	ErrCheckInFinalized        = errors.New("check-in is finalized")
	ErrCheckInAlreadyFinalized = errors.New("check-in already finalized")
)

// CheckInDraft accumulates a check-in across form steps. Finalize is the only way
// to produce a finalized record and succeeds once.
type CheckInDraft struct {
	record models.CheckIn
}

func NewCheckInDraft(userID uint, day time.Time) *CheckInDraft {
	return &CheckInDraft{
		record: models.CheckIn{
			UserID: userID,
			Date:   day,
			Status: models.CheckInStatusDraft,
		},
	}
}

// DraftFromRecord resumes a stored record. A finalized record yields a draft that
// rejects every change.
func DraftFromRecord(record models.CheckIn) *CheckInDraft {
	if record.Status == "" {
		record.Status = models.CheckInStatusDraft
	}
	return &CheckInDraft{record: record}
}

func (draft *CheckInDraft) Apply(sections ...DraftSection) error {
	if draft.record.IsFinalized() {
		return ErrCheckInFinalized
	}

	next := draft.record
	for _, section := range sections {
		if section == nil {
			continue
		}
		if err := section.applyTo(&next); err != nil {
			return err
		}
	}
	draft.record = next
	return nil
}

func (draft *CheckInDraft) Record() models.CheckIn {
	return draft.record
}

// Finalize validates identity, derives every computed field and freezes the record.
// doseAdherence is the day's scheduled-dose adherence rate, used only when the user
// did not report an adherence category; pass nil when no dose data exists.
func (draft *CheckInDraft) Finalize(now time.Time, doseAdherence *float64) (models.CheckIn, error) {
	if draft.record.UserID == 0 {
		return models.CheckIn{}, ErrCheckInUserRequired
	}
	if draft.record.Date.IsZero() {
		return models.CheckIn{}, ErrCheckInDateRequired
	}
	if draft.record.IsFinalized() {
		return models.CheckIn{}, ErrCheckInAlreadyFinalized
	}

	record := draft.record
	if record.MedicationAdherence == "" && doseAdherence != nil {
		record.MedicationAdherence = AdherenceCategoryForRate(*doseAdherence)
	}

	record = DeriveCheckIn(record)
	finalizedAt := now
	record.Status = models.CheckInStatusFinalized
	record.FinalizedAt = &finalizedAt

	draft.record = record
	return record, nil
}

// DeriveCheckIn fills every derived field from the raw inputs without touching status.
func DeriveCheckIn(checkIn models.CheckIn) models.CheckIn {
	scores := ScoreCheckIn(checkIn)
	flags := DetectFlags(checkIn)
	followUp := ClassifyFollowUp(checkIn, flags)

	checkIn.OverallWellness = scores.OverallWellness
	checkIn.PhysicalScore = scores.PhysicalScore
	checkIn.MentalScore = scores.MentalScore
	checkIn.AdherenceScore = scores.AdherenceScore
	checkIn.RecoveryScore = scores.RecoveryScore
	checkIn.RedFlags = FlagMessages(flags.Red)
	checkIn.YellowFlags = FlagMessages(flags.Yellow)
	checkIn.Achievements = FlagMessages(flags.Achievements)
	checkIn.NeedsFollowUp = followUp.NeedsFollowUp
	checkIn.EmergencyAlert = followUp.EmergencyAlert
	return checkIn
}
