package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MedicationScheduleRepository struct {
	database *gorm.DB
}

func NewMedicationScheduleRepository(database *gorm.DB) *MedicationScheduleRepository {
	return &MedicationScheduleRepository{database: database}
}

func (repo *MedicationScheduleRepository) ListByUser(userID uint) ([]models.MedicationSchedule, error) {
	schedules := make([]models.MedicationSchedule, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("name ASC, created_at ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (repo *MedicationScheduleRepository) ListByIDs(ids []uuid.UUID) ([]models.MedicationSchedule, error) {
	schedules := make([]models.MedicationSchedule, 0, len(ids))
	if len(ids) == 0 {
		return schedules, nil
	}
	if err := repo.database.Where("id IN ?", ids).Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListActive returns active schedules of every user.
func (repo *MedicationScheduleRepository) ListActive() ([]models.MedicationSchedule, error) {
	schedules := make([]models.MedicationSchedule, 0)
	if err := repo.database.
		Where("active = ?", true).
		Order("user_id ASC, name ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (repo *MedicationScheduleRepository) FindByIDForUser(id uuid.UUID, userID uint) (models.MedicationSchedule, bool, error) {
	schedule := models.MedicationSchedule{}
	result := repo.database.Where("id = ? AND user_id = ?", id, userID).Limit(1).Find(&schedule)
	if result.Error != nil {
		return models.MedicationSchedule{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MedicationSchedule{}, false, nil
	}
	return schedule, true, nil
}

func (repo *MedicationScheduleRepository) Create(schedule *models.MedicationSchedule) error {
	return repo.database.Create(schedule).Error
}

func (repo *MedicationScheduleRepository) Save(schedule *models.MedicationSchedule) error {
	return repo.database.Save(schedule).Error
}

type DoseEventRepository struct {
	database *gorm.DB
}

func NewDoseEventRepository(database *gorm.DB) *DoseEventRepository {
	return &DoseEventRepository{database: database}
}

func (repo *DoseEventRepository) ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.DoseEvent, error) {
	return repo.ListByUserRange(userID, &dayStart, &dayEnd)
}

func (repo *DoseEventRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DoseEvent, error) {
	query := repo.database.Model(&models.DoseEvent{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("day >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("day < ?", *toEnd)
	}

	scheduled := make([]models.DoseEvent, 0)
	if err := query.Order("scheduled_at ASC").Find(&scheduled).Error; err != nil {
		return nil, err
	}
	return scheduled, nil
}

// ListPendingBetween returns untaken doses of every user scheduled inside [from, to].
func (repo *DoseEventRepository) ListPendingBetween(from time.Time, to time.Time) ([]models.DoseEvent, error) {
	pending := make([]models.DoseEvent, 0)
	if err := repo.database.
		Where("taken = ? AND scheduled_at >= ? AND scheduled_at <= ?", false, from, to).
		Order("scheduled_at ASC").
		Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (repo *DoseEventRepository) FindByIDForUser(id uuid.UUID, userID uint) (models.DoseEvent, bool, error) {
	event := models.DoseEvent{}
	result := repo.database.Where("id = ? AND user_id = ?", id, userID).Limit(1).Find(&event)
	if result.Error != nil {
		return models.DoseEvent{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DoseEvent{}, false, nil
	}
	return event, true, nil
}

// CreateMissing inserts doses and skips any slot that already exists.
func (repo *DoseEventRepository) CreateMissing(scheduled []models.DoseEvent) error {
	if len(scheduled) == 0 {
		return nil
	}
	return repo.database.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&scheduled).Error
}

func (repo *DoseEventRepository) UpdateTaken(event *models.DoseEvent) error {
	return repo.database.Model(event).Updates(map[string]any{
		"taken":    event.Taken,
		"taken_at": event.TakenAt,
	}).Error
}
