package services

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"gorm.io/datatypes"
)

const (
	scheduleTimeLayout     = "15:04"
	maxScheduleNameLength  = 120
	maxDosageLength        = 120
	maxScheduleTimesPerDay = 12
)

var (
	ErrInvalidScheduleName  = errors.New("invalid schedule name")
	ErrInvalidScheduleTimes = errors.New("invalid schedule times")
	ErrInvalidScheduleRange = errors.New("invalid schedule range")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrDoseNotFound         = errors.New("dose not found")
	ErrScheduleLoadFailed   = errors.New("load schedules failed")
	ErrScheduleSaveFailed   = errors.New("save schedule failed")
	ErrDoseLoadFailed       = errors.New("load doses failed")
	ErrDoseSaveFailed       = errors.New("save dose failed")
)

type MedicationScheduleRepository interface {
	ListByUser(userID uint) ([]models.MedicationSchedule, error)
	FindByIDForUser(id uuid.UUID, userID uint) (models.MedicationSchedule, bool, error)
	Create(schedule *models.MedicationSchedule) error
	Save(schedule *models.MedicationSchedule) error
}

type DoseEventRepository interface {
	ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.DoseEvent, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DoseEvent, error)
	FindByIDForUser(id uuid.UUID, userID uint) (models.DoseEvent, bool, error)
	CreateMissing(events []models.DoseEvent) error
	UpdateTaken(event *models.DoseEvent) error
}

type ScheduleInput struct {
	Name         string
	Dosage       string
	Times        []string
	StartDate    time.Time
	EndDate      *time.Time
	DurationDays int
}

type DoseView struct {
	Dose       models.DoseEvent `json:"dose"`
	Medication string           `json:"medication"`
	Dosage     string           `json:"dosage"`
	Status     DoseStatus       `json:"status"`
}

type MedicationService struct {
	schedules MedicationScheduleRepository
	doses     DoseEventRepository
}

func NewMedicationService(schedules MedicationScheduleRepository, doses DoseEventRepository) *MedicationService {
	return &MedicationService{
		schedules: schedules,
		doses:     doses,
	}
}

func (service *MedicationService) CreateSchedule(userID uint, input ScheduleInput, location *time.Location) (models.MedicationSchedule, error) {
	schedule, err := NormalizeScheduleInput(input, location)
	if err != nil {
		return models.MedicationSchedule{}, err
	}
	schedule.UserID = userID
	schedule.Active = true

	if err := service.schedules.Create(&schedule); err != nil {
		return models.MedicationSchedule{}, ErrScheduleSaveFailed
	}
	return schedule, nil
}

func (service *MedicationService) ListSchedules(userID uint) ([]models.MedicationSchedule, error) {
	schedules, err := service.schedules.ListByUser(userID)
	if err != nil {
		return nil, ErrScheduleLoadFailed
	}
	return schedules, nil
}

// DeactivateSchedule stops future dose generation. Existing dose events stay untouched.
func (service *MedicationService) DeactivateSchedule(userID uint, scheduleID uuid.UUID) (models.MedicationSchedule, error) {
	schedule, found, err := service.schedules.FindByIDForUser(scheduleID, userID)
	if err != nil {
		return models.MedicationSchedule{}, ErrScheduleLoadFailed
	}
	if !found {
		return models.MedicationSchedule{}, ErrScheduleNotFound
	}
	schedule.Active = false
	if err := service.schedules.Save(&schedule); err != nil {
		return models.MedicationSchedule{}, ErrScheduleSaveFailed
	}
	return schedule, nil
}

// ActivateDay makes sure every active schedule has one dose event per time for the day.
// Repeated calls create nothing new.
func (service *MedicationService) ActivateDay(userID uint, day time.Time, location *time.Location) error {
	return service.ActivateRange(userID, day, day, location)
}

// ActivateRange activates every calendar day from from through to. An inverted range is a no-op.
func (service *MedicationService) ActivateRange(userID uint, from time.Time, to time.Time, location *time.Location) error {
	fromStart, _ := DayRange(from, location)
	_, toEnd := DayRange(to, location)
	if !fromStart.Before(toEnd) {
		return nil
	}

	schedules, err := service.schedules.ListByUser(userID)
	if err != nil {
		return ErrScheduleLoadFailed
	}
	schedules = lo.Filter(schedules, func(schedule models.MedicationSchedule, _ int) bool {
		return schedule.Active
	})
	if len(schedules) == 0 {
		return nil
	}
	existing, err := service.doses.ListByUserRange(userID, &fromStart, &toEnd)
	if err != nil {
		return ErrDoseLoadFailed
	}

	seen := make(map[string]struct{}, len(existing))
	for _, event := range existing {
		seen[doseSlotKey(event.ScheduleID, event.ScheduledAt)] = struct{}{}
	}

	missing := make([]models.DoseEvent, 0)
	for dayStart := fromStart; dayStart.Before(toEnd); dayStart = dayStart.AddDate(0, 0, 1) {
		for _, schedule := range schedules {
			if !IsScheduleActiveOn(schedule, dayStart, location) {
				continue
			}
			for _, timeOfDay := range schedule.Times {
				scheduledAt, err := ScheduledInstant(dayStart, timeOfDay, location)
				if err != nil {
					continue
				}
				key := doseSlotKey(schedule.ID, scheduledAt)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				missing = append(missing, models.DoseEvent{
					ScheduleID:    schedule.ID,
					UserID:        userID,
					Day:           dayStart,
					ScheduledTime: timeOfDay,
					ScheduledAt:   scheduledAt,
				})
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := service.doses.CreateMissing(missing); err != nil {
		return ErrDoseSaveFailed
	}
	return nil
}

// DosesForDay activates the day and returns its doses ordered by time, with status at now.
func (service *MedicationService) DosesForDay(userID uint, day time.Time, now time.Time, location *time.Location) ([]DoseView, error) {
	if err := service.ActivateDay(userID, day, location); err != nil {
		return nil, err
	}

	dayStart, dayEnd := DayRange(day, location)
	scheduled, err := service.doses.ListByUserDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, ErrDoseLoadFailed
	}
	schedules, err := service.schedules.ListByUser(userID)
	if err != nil {
		return nil, ErrScheduleLoadFailed
	}

	return BuildDoseViews(schedules, scheduled, now), nil
}

// SetDoseTaken records the latest write for a dose. Concurrent writers are not merged.
func (service *MedicationService) SetDoseTaken(userID uint, doseID uuid.UUID, taken bool, now time.Time) (DoseView, error) {
	event, found, err := service.doses.FindByIDForUser(doseID, userID)
	if err != nil {
		return DoseView{}, ErrDoseLoadFailed
	}
	if !found {
		return DoseView{}, ErrDoseNotFound
	}
	return service.writeTaken(userID, event, taken, now)
}

func (service *MedicationService) ToggleDose(userID uint, doseID uuid.UUID, now time.Time) (DoseView, error) {
	event, found, err := service.doses.FindByIDForUser(doseID, userID)
	if err != nil {
		return DoseView{}, ErrDoseLoadFailed
	}
	if !found {
		return DoseView{}, ErrDoseNotFound
	}
	return service.writeTaken(userID, event, !event.Taken, now)
}

// AdherenceReport activates the range up to today before counting, so unviewed days still count.
func (service *MedicationService) AdherenceReport(userID uint, from time.Time, to time.Time, now time.Time, location *time.Location) (AdherenceReport, error) {
	activateTo := DateAtLocation(to, location)
	if today := DateAtLocation(now, location); activateTo.After(today) {
		activateTo = today
	}
	if err := service.ActivateRange(userID, from, activateTo, location); err != nil {
		return AdherenceReport{}, err
	}

	fromStart, _ := DayRange(from, location)
	_, toEnd := DayRange(to, location)

	schedules, err := service.schedules.ListByUser(userID)
	if err != nil {
		return AdherenceReport{}, ErrScheduleLoadFailed
	}
	scheduled, err := service.doses.ListByUserRange(userID, &fromStart, &toEnd)
	if err != nil {
		return AdherenceReport{}, ErrDoseLoadFailed
	}
	return BuildAdherenceReport(schedules, DueDoseEvents(scheduled, now)), nil
}

func (service *MedicationService) writeTaken(userID uint, event models.DoseEvent, taken bool, now time.Time) (DoseView, error) {
	event.Taken = taken
	event.TakenAt = nil
	if taken {
		takenAt := now
		event.TakenAt = &takenAt
	}
	if err := service.doses.UpdateTaken(&event); err != nil {
		return DoseView{}, ErrDoseSaveFailed
	}

	view := DoseView{
		Dose:   event,
		Status: ResolveDoseStatus(event.ScheduledAt, event.Taken, now),
	}
	schedule, found, err := service.schedules.FindByIDForUser(event.ScheduleID, userID)
	if err == nil && found {
		view.Medication = schedule.Name
		view.Dosage = schedule.Dosage
	}
	return view, nil
}

func BuildDoseViews(schedules []models.MedicationSchedule, scheduled []models.DoseEvent, now time.Time) []DoseView {
	byID := lo.KeyBy(schedules, func(schedule models.MedicationSchedule) uuid.UUID {
		return schedule.ID
	})

	views := make([]DoseView, 0, len(scheduled))
	for _, event := range scheduled {
		schedule := byID[event.ScheduleID]
		views = append(views, DoseView{
			Dose:       event,
			Medication: schedule.Name,
			Dosage:     schedule.Dosage,
			Status:     ResolveDoseStatus(event.ScheduledAt, event.Taken, now),
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Dose.ScheduledAt.Equal(views[j].Dose.ScheduledAt) {
			return views[i].Medication < views[j].Medication
		}
		return views[i].Dose.ScheduledAt.Before(views[j].Dose.ScheduledAt)
	})
	return views
}

func NormalizeScheduleInput(input ScheduleInput, location *time.Location) (models.MedicationSchedule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxScheduleNameLength {
		return models.MedicationSchedule{}, ErrInvalidScheduleName
	}
	dosage := TruncateRunes(strings.TrimSpace(input.Dosage), maxDosageLength)

	times, err := NormalizeScheduleTimes(input.Times)
	if err != nil {
		return models.MedicationSchedule{}, err
	}

	if input.StartDate.IsZero() {
		return models.MedicationSchedule{}, ErrInvalidScheduleRange
	}
	start := DateAtLocation(input.StartDate, location)

	var end *time.Time
	switch {
	case input.EndDate != nil:
		normalizedEnd := DateAtLocation(*input.EndDate, location)
		end = &normalizedEnd
	case input.DurationDays > 0:
		derivedEnd := start.AddDate(0, 0, input.DurationDays-1)
		end = &derivedEnd
	case input.DurationDays < 0:
		return models.MedicationSchedule{}, ErrInvalidScheduleRange
	}
	if end != nil && end.Before(start) {
		return models.MedicationSchedule{}, ErrInvalidScheduleRange
	}

	schedule := models.MedicationSchedule{
		Name:      name,
		Dosage:    dosage,
		StartDate: start,
		EndDate:   end,
	}
	schedule.Times = datatypes.NewJSONSlice(times)
	return schedule, nil
}

// NormalizeScheduleTimes validates "HH:MM" entries and returns them sorted and unique.
func NormalizeScheduleTimes(raw []string) ([]string, error) {
	times := make([]string, 0, len(raw))
	for _, value := range raw {
		parsed, err := time.Parse(scheduleTimeLayout, strings.TrimSpace(value))
		if err != nil {
			return nil, ErrInvalidScheduleTimes
		}
		times = append(times, parsed.Format(scheduleTimeLayout))
	}
	times = lo.Uniq(times)
	if len(times) == 0 || len(times) > maxScheduleTimesPerDay {
		return nil, ErrInvalidScheduleTimes
	}
	sort.Strings(times)
	return times, nil
}

func IsScheduleActiveOn(schedule models.MedicationSchedule, day time.Time, location *time.Location) bool {
	if !schedule.Active {
		return false
	}
	target := DateAtLocation(day, location)
	if target.Before(DateAtLocation(schedule.StartDate, location)) {
		return false
	}
	if schedule.EndDate != nil && target.After(DateAtLocation(*schedule.EndDate, location)) {
		return false
	}
	return true
}

// ScheduledInstant places an "HH:MM" time of day on a calendar day in location.
func ScheduledInstant(day time.Time, timeOfDay string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.Parse(scheduleTimeLayout, timeOfDay)
	if err != nil {
		return time.Time{}, ErrInvalidScheduleTimes
	}
	dayStart := DateAtLocation(day, location)
	year, month, date := dayStart.Date()
	return time.Date(year, month, date, parsed.Hour(), parsed.Minute(), 0, 0, location), nil
}

func doseSlotKey(scheduleID uuid.UUID, scheduledAt time.Time) string {
	return scheduleID.String() + "@" + scheduledAt.UTC().Format(time.RFC3339)
}
