package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/vitalcheck/internal/events"
	"github.com/terraincognita07/vitalcheck/internal/models"
)

var errStubFailure = errors.New("stub failure")

type stubCheckInRepo struct {
	entries map[string]models.CheckIn
	findErr error
	saveErr error
	creates int
	saves   int
}

func newStubCheckInRepo() *stubCheckInRepo {
	return &stubCheckInRepo{entries: make(map[string]models.CheckIn)}
}

func checkInKey(userID uint, day time.Time) string {
	return fmt.Sprintf("%d|%s", userID, FormatDay(day))
}

func (stub *stubCheckInRepo) FindByUserAndDayRange(userID uint, dayStart time.Time, _ time.Time) (models.CheckIn, bool, error) {
	if stub.findErr != nil {
		return models.CheckIn{}, false, stub.findErr
	}
	entry, ok := stub.entries[checkInKey(userID, dayStart)]
	return entry, ok, nil
}

func (stub *stubCheckInRepo) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.CheckIn, error) {
	if stub.findErr != nil {
		return nil, stub.findErr
	}
	result := make([]models.CheckIn, 0, len(stub.entries))
	for _, entry := range stub.entries {
		if entry.UserID != userID {
			continue
		}
		if fromStart != nil && entry.Date.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !entry.Date.Before(*toEnd) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (stub *stubCheckInRepo) Create(entry *models.CheckIn) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	stub.creates++
	stub.entries[checkInKey(entry.UserID, entry.Date)] = *entry
	return nil
}

func (stub *stubCheckInRepo) Save(entry *models.CheckIn) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.saves++
	stub.entries[checkInKey(entry.UserID, entry.Date)] = *entry
	return nil
}

type stubProgressRepo struct {
	points    map[string]models.ProgressPoint
	upsertErr error
}

func newStubProgressRepo() *stubProgressRepo {
	return &stubProgressRepo{points: make(map[string]models.ProgressPoint)}
}

func (stub *stubProgressRepo) Upsert(point *models.ProgressPoint) error {
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	stub.points[checkInKey(point.UserID, point.Date)] = *point
	return nil
}

func (stub *stubProgressRepo) ListByUserRange(userID uint, _ *time.Time, _ *time.Time) ([]models.ProgressPoint, error) {
	result := make([]models.ProgressPoint, 0, len(stub.points))
	for _, point := range stub.points {
		if point.UserID == userID {
			result = append(result, point)
		}
	}
	return result, nil
}

type stubScheduleRepo struct {
	schedules []models.MedicationSchedule
	listErr   error
	createErr error
}

func (stub *stubScheduleRepo) ListByUser(userID uint) ([]models.MedicationSchedule, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.MedicationSchedule, 0, len(stub.schedules))
	for _, schedule := range stub.schedules {
		if schedule.UserID == userID {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func (stub *stubScheduleRepo) ListByIDs(ids []uuid.UUID) ([]models.MedicationSchedule, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.MedicationSchedule, 0, len(ids))
	for _, schedule := range stub.schedules {
		for _, id := range ids {
			if schedule.ID == id {
				result = append(result, schedule)
			}
		}
	}
	return result, nil
}

func (stub *stubScheduleRepo) ListActive() ([]models.MedicationSchedule, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.MedicationSchedule, 0, len(stub.schedules))
	for _, schedule := range stub.schedules {
		if schedule.Active {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func (stub *stubScheduleRepo) FindByIDForUser(id uuid.UUID, userID uint) (models.MedicationSchedule, bool, error) {
	for _, schedule := range stub.schedules {
		if schedule.ID == id && schedule.UserID == userID {
			return schedule, true, nil
		}
	}
	return models.MedicationSchedule{}, false, nil
}

func (stub *stubScheduleRepo) Create(schedule *models.MedicationSchedule) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	stub.schedules = append(stub.schedules, *schedule)
	return nil
}

func (stub *stubScheduleRepo) Save(schedule *models.MedicationSchedule) error {
	for index := range stub.schedules {
		if stub.schedules[index].ID == schedule.ID {
			stub.schedules[index] = *schedule
			return nil
		}
	}
	return errStubFailure
}

type stubDoseRepo struct {
	events      []models.DoseEvent
	createCalls int
	pendingErr  error
}

func (stub *stubDoseRepo) ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.DoseEvent, error) {
	return stub.ListByUserRange(userID, &dayStart, &dayEnd)
}

func (stub *stubDoseRepo) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DoseEvent, error) {
	result := make([]models.DoseEvent, 0, len(stub.events))
	for _, event := range stub.events {
		if event.UserID != userID {
			continue
		}
		if fromStart != nil && event.Day.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !event.Day.Before(*toEnd) {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (stub *stubDoseRepo) ListPendingBetween(from time.Time, to time.Time) ([]models.DoseEvent, error) {
	if stub.pendingErr != nil {
		return nil, stub.pendingErr
	}
	result := make([]models.DoseEvent, 0)
	for _, event := range stub.events {
		if event.Taken || event.ScheduledAt.Before(from) || !event.ScheduledAt.Before(to) {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (stub *stubDoseRepo) FindByIDForUser(id uuid.UUID, userID uint) (models.DoseEvent, bool, error) {
	for _, event := range stub.events {
		if event.ID == id && event.UserID == userID {
			return event, true, nil
		}
	}
	return models.DoseEvent{}, false, nil
}

func (stub *stubDoseRepo) CreateMissing(events []models.DoseEvent) error {
	stub.createCalls++
	for _, event := range events {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		stub.events = append(stub.events, event)
	}
	return nil
}

func (stub *stubDoseRepo) UpdateTaken(event *models.DoseEvent) error {
	for index := range stub.events {
		if stub.events[index].ID == event.ID {
			stub.events[index].Taken = event.Taken
			stub.events[index].TakenAt = event.TakenAt
			return nil
		}
	}
	return errStubFailure
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []events.Event
	failFor map[string]bool
}

func (publisher *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if publisher.failFor[event.Type] {
		return errStubFailure
	}
	publisher.events = append(publisher.events, event)
	return nil
}

func (publisher *recordingPublisher) Close() error {
	return nil
}

func (publisher *recordingPublisher) types() []string {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	types := make([]string, 0, len(publisher.events))
	for _, event := range publisher.events {
		types = append(types, event.Type)
	}
	return types
}

func mustSchedule(userID uint, name string, start time.Time, times ...string) models.MedicationSchedule {
	schedule := models.MedicationSchedule{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Times:     times,
		StartDate: start,
		Active:    true,
	}
	return schedule
}
