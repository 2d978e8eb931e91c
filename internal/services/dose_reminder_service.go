package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/terraincognita07/vitalcheck/internal/events"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"go.uber.org/zap"
)

const (
	defaultReminderInterval = 5 * time.Minute
	missedDoseLookback      = 24 * time.Hour
	maxTrackedReminders     = 5000
)

type ReminderDoseSource interface {
	ListPendingBetween(from time.Time, to time.Time) ([]models.DoseEvent, error)
}

type ReminderScheduleSource interface {
	ListByIDs(ids []uuid.UUID) ([]models.MedicationSchedule, error)
	ListActive() ([]models.MedicationSchedule, error)
}

// DoseReminderService publishes due-soon and missed events for untaken doses.
// Each dose is announced at most once per status while the process lives.
type DoseReminderService struct {
	doses     ReminderDoseSource
	schedules ReminderScheduleSource
	activator DoseDayActivator
	publisher events.Publisher
	interval  time.Duration
	location  *time.Location
	logger    *zap.Logger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewDoseReminderService(doses ReminderDoseSource, schedules ReminderScheduleSource, activator DoseDayActivator, publisher events.Publisher, interval time.Duration, location *time.Location, logger *zap.Logger) *DoseReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	if interval <= 0 {
		interval = defaultReminderInterval
	}
	if location == nil {
		location = time.UTC
	}
	return &DoseReminderService{
		doses:     doses,
		schedules: schedules,
		activator: activator,
		publisher: publisher,
		interval:  interval,
		location:  location,
		logger:    logger.Named("reminders"),
		sent:      make(map[string]time.Time),
	}
}

func (service *DoseReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(service.interval)
	go func() {
		defer ticker.Stop()

		service.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.tick(ctx)
			}
		}
	}()
}

func (service *DoseReminderService) tick(ctx context.Context) {
	if _, err := service.RunOnce(ctx, time.Now()); err != nil {
		service.logger.Warn("reminder run failed", zap.Error(err))
	}
}

// RunOnce scans pending doses around now and returns how many events were published.
func (service *DoseReminderService) RunOnce(ctx context.Context, now time.Time) (int, error) {
	// Stored instants carry the service location, so queries must use it too.
	now = now.In(service.location)
	from, to := now.Add(-missedDoseLookback), now.Add(DueSoonWindow)
	service.activateWindow(from, to)

	pending, err := service.doses.ListPendingBetween(from, to)
	if err != nil {
		return 0, ErrDoseLoadFailed
	}
	if len(pending) == 0 {
		return 0, nil
	}

	scheduleIDs := lo.Uniq(lo.Map(pending, func(event models.DoseEvent, _ int) uuid.UUID {
		return event.ScheduleID
	}))
	schedules, err := service.schedules.ListByIDs(scheduleIDs)
	if err != nil {
		return 0, ErrScheduleLoadFailed
	}
	byID := lo.KeyBy(schedules, func(schedule models.MedicationSchedule) uuid.UUID {
		return schedule.ID
	})

	published := 0
	for _, dose := range pending {
		status := ResolveDoseStatus(dose.ScheduledAt, dose.Taken, now)
		eventType, ok := reminderEventType(status)
		if !ok {
			continue
		}
		key := dose.ID.String() + ":" + string(status)
		if !service.markSent(key, now) {
			continue
		}

		schedule := byID[dose.ScheduleID]
		event := events.Event{
			Type:       eventType,
			UserID:     dose.UserID,
			Date:       FormatDay(dose.Day),
			OccurredAt: now,
			Payload: events.DoseReminder{
				DoseID:        dose.ID.String(),
				Medication:    schedule.Name,
				Dosage:        schedule.Dosage,
				ScheduledTime: dose.ScheduledTime,
				ScheduledAt:   dose.ScheduledAt,
				Status:        string(status),
			},
		}
		if err := service.publisher.Publish(ctx, event); err != nil {
			service.unmarkSent(key)
			service.logger.Warn("publish dose reminder failed",
				zap.String("dose_id", dose.ID.String()),
				zap.String("type", eventType),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	return published, nil
}

// activateWindow creates dose events for every day the scan window touches, for users with active schedules.
// Failures are logged so one user cannot block reminders for the rest.
func (service *DoseReminderService) activateWindow(from time.Time, to time.Time) {
	if service.activator == nil {
		return
	}
	active, err := service.schedules.ListActive()
	if err != nil {
		service.logger.Warn("list active schedules failed", zap.Error(err))
		return
	}
	userIDs := lo.Uniq(lo.Map(active, func(schedule models.MedicationSchedule, _ int) uint {
		return schedule.UserID
	}))
	lastDay := DateAtLocation(to, service.location)
	for _, userID := range userIDs {
		for day := DateAtLocation(from, service.location); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			if err := service.activator.ActivateDay(userID, day, service.location); err != nil {
				service.logger.Warn("activate dose day failed",
					zap.Uint("user_id", userID),
					zap.String("date", FormatDay(day)),
					zap.Error(err),
				)
			}
		}
	}
}

func reminderEventType(status DoseStatus) (string, bool) {
	switch status {
	case DoseStatusDueSoon:
		return events.TypeDoseDueSoon, true
	case DoseStatusMissed:
		return events.TypeDoseMissed, true
	default:
		return "", false
	}
}

func (service *DoseReminderService) markSent(key string, now time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if _, ok := service.sent[key]; ok {
		return false
	}
	if len(service.sent) >= maxTrackedReminders {
		cutoff := now.Add(-2 * missedDoseLookback)
		for existing, sentAt := range service.sent {
			if sentAt.Before(cutoff) {
				delete(service.sent, existing)
			}
		}
	}
	service.sent[key] = now
	return true
}

func (service *DoseReminderService) unmarkSent(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}
