package services

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/vitalcheck/internal/events"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"go.uber.org/zap"
)

var (
	ErrCheckInLoadFailed   = errors.New("load check-in failed")
	ErrCheckInSaveFailed   = errors.New("save check-in failed")
	ErrDoseHistoryFailed   = errors.New("load dose history failed")
	ErrProgressLoadFailed  = errors.New("load progress failed")
	ErrProgressWriteFailed = errors.New("write progress failed")
)

type CheckInRepository interface {
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.CheckIn, bool, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.CheckIn, error)
	Create(entry *models.CheckIn) error
	Save(entry *models.CheckIn) error
}

type ProgressRepository interface {
	Upsert(point *models.ProgressPoint) error
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.ProgressPoint, error)
}

type CheckInDoseReader interface {
	ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.DoseEvent, error)
}

// DoseDayActivator creates the day's scheduled dose events before they are read.
type DoseDayActivator interface {
	ActivateDay(userID uint, day time.Time, location *time.Location) error
}

type CheckInService struct {
	checkIns  CheckInRepository
	progress  ProgressRepository
	doses     CheckInDoseReader
	activator DoseDayActivator
	publisher events.Publisher
	logger    *zap.Logger
}

func NewCheckInService(checkIns CheckInRepository, progress ProgressRepository, doses CheckInDoseReader, activator DoseDayActivator, publisher events.Publisher, logger *zap.Logger) *CheckInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	return &CheckInService{
		checkIns:  checkIns,
		progress:  progress,
		doses:     doses,
		activator: activator,
		publisher: publisher,
		logger:    logger.Named("checkins"),
	}
}

// FetchCheckIn returns the stored record for the day, or an unsaved empty draft.
func (service *CheckInService) FetchCheckIn(userID uint, day time.Time, location *time.Location) (models.CheckIn, error) {
	dayStart, dayEnd := DayRange(day, location)
	entry, found, err := service.checkIns.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.CheckIn{}, ErrCheckInLoadFailed
	}
	if !found {
		return NewCheckInDraft(userID, dayStart).Record(), nil
	}
	return entry, nil
}

func (service *CheckInService) ListCheckIns(userID uint, from time.Time, to time.Time, location *time.Location) ([]models.CheckIn, error) {
	fromStart, _ := DayRange(from, location)
	_, toEnd := DayRange(to, location)
	entries, err := service.checkIns.ListByUserRange(userID, &fromStart, &toEnd)
	if err != nil {
		return nil, ErrCheckInLoadFailed
	}
	return entries, nil
}

// UpdateDraft applies form sections to the day's draft and persists it.
func (service *CheckInService) UpdateDraft(userID uint, day time.Time, location *time.Location, sections ...DraftSection) (models.CheckIn, error) {
	if userID == 0 {
		return models.CheckIn{}, ErrCheckInUserRequired
	}
	if day.IsZero() {
		return models.CheckIn{}, ErrCheckInDateRequired
	}

	dayStart, dayEnd := DayRange(day, location)
	entry, found, err := service.checkIns.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.CheckIn{}, ErrCheckInLoadFailed
	}

	draft := NewCheckInDraft(userID, dayStart)
	if found {
		draft = DraftFromRecord(entry)
	}
	if err := draft.Apply(sections...); err != nil {
		return models.CheckIn{}, err
	}

	record := draft.Record()
	if err := service.persist(&record, found); err != nil {
		return models.CheckIn{}, err
	}
	return record, nil
}

// Finalize freezes the day's check-in, updates the progress series and publishes the outcome.
func (service *CheckInService) Finalize(ctx context.Context, userID uint, day time.Time, now time.Time, location *time.Location) (models.CheckIn, FlagSet, error) {
	if userID == 0 {
		return models.CheckIn{}, FlagSet{}, ErrCheckInUserRequired
	}
	if day.IsZero() {
		return models.CheckIn{}, FlagSet{}, ErrCheckInDateRequired
	}

	dayStart, dayEnd := DayRange(day, location)
	entry, found, err := service.checkIns.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.CheckIn{}, FlagSet{}, ErrCheckInLoadFailed
	}

	draft := NewCheckInDraft(userID, dayStart)
	if found {
		draft = DraftFromRecord(entry)
	}

	doseAdherence, err := service.dayDoseAdherence(userID, dayStart, dayEnd, now, location)
	if err != nil {
		return models.CheckIn{}, FlagSet{}, ErrDoseHistoryFailed
	}

	record, err := draft.Finalize(now, doseAdherence)
	if err != nil {
		return models.CheckIn{}, FlagSet{}, err
	}
	if err := service.persist(&record, found); err != nil {
		return models.CheckIn{}, FlagSet{}, err
	}

	point := BuildProgressPoint(record)
	if err := service.progress.Upsert(&point); err != nil {
		service.logger.Error("progress upsert failed",
			zap.Uint("user_id", userID),
			zap.String("date", FormatDay(dayStart)),
			zap.Error(err),
		)
	}

	flags := DetectFlags(record)
	service.publishFinalized(ctx, record, now)
	return record, flags, nil
}

func (service *CheckInService) ListProgress(userID uint, from time.Time, to time.Time, location *time.Location) ([]models.ProgressPoint, error) {
	fromStart, _ := DayRange(from, location)
	_, toEnd := DayRange(to, location)
	points, err := service.progress.ListByUserRange(userID, &fromStart, &toEnd)
	if err != nil {
		return nil, ErrProgressLoadFailed
	}
	return points, nil
}

// RebuildProgress re-projects every finalized check-in in the range. Upserts make it safe to repeat.
func (service *CheckInService) RebuildProgress(userID uint, from time.Time, to time.Time, location *time.Location) (int, error) {
	entries, err := service.ListCheckIns(userID, from, to, location)
	if err != nil {
		return 0, err
	}

	rebuilt := 0
	for _, entry := range entries {
		if !entry.IsFinalized() {
			continue
		}
		point := BuildProgressPoint(entry)
		if err := service.progress.Upsert(&point); err != nil {
			return rebuilt, ErrProgressWriteFailed
		}
		rebuilt++
	}
	return rebuilt, nil
}

func (service *CheckInService) persist(record *models.CheckIn, exists bool) error {
	if exists {
		if err := service.checkIns.Save(record); err != nil {
			return ErrCheckInSaveFailed
		}
		return nil
	}
	if err := service.checkIns.Create(record); err != nil {
		return ErrCheckInSaveFailed
	}
	return nil
}

// dayDoseAdherence returns nil when the day has no scheduled doses at all.
func (service *CheckInService) dayDoseAdherence(userID uint, dayStart time.Time, dayEnd time.Time, now time.Time, location *time.Location) (*float64, error) {
	if service.doses == nil {
		return nil, nil
	}
	if service.activator != nil {
		if err := service.activator.ActivateDay(userID, dayStart, location); err != nil {
			return nil, err
		}
	}
	scheduled, err := service.doses.ListByUserDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if len(scheduled) == 0 {
		return nil, nil
	}
	rate := ComputeAdherence(DueDoseEvents(scheduled, now))
	return &rate, nil
}

func (service *CheckInService) publishFinalized(ctx context.Context, record models.CheckIn, now time.Time) {
	summary := events.CheckInSummary{
		CheckInID:       record.ID.String(),
		OverallWellness: record.OverallWellness,
		RecoveryScore:   record.RecoveryScore,
		RedFlags:        record.RedFlags,
		YellowFlags:     record.YellowFlags,
		NeedsFollowUp:   record.NeedsFollowUp,
		EmergencyAlert:  record.EmergencyAlert,
	}

	published := []string{events.TypeCheckInFinalized}
	if record.EmergencyAlert {
		published = append(published, events.TypeCheckInEmergency)
	}
	for _, eventType := range published {
		event := events.Event{
			Type:       eventType,
			UserID:     record.UserID,
			Date:       FormatDay(record.Date),
			OccurredAt: now,
			Payload:    summary,
		}
		if err := service.publisher.Publish(ctx, event); err != nil {
			service.logger.Warn("publish check-in event failed",
				zap.String("type", eventType),
				zap.Uint("user_id", record.UserID),
				zap.Error(err),
			)
		}
	}
}
