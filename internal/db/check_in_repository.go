package db

import (
	"time"

	"github.com/terraincognita07/vitalcheck/internal/models"
	"gorm.io/gorm"
)

type CheckInRepository struct {
	database *gorm.DB
}

func NewCheckInRepository(database *gorm.DB) *CheckInRepository {
	return &CheckInRepository{database: database}
}

func (repo *CheckInRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.CheckIn, bool, error) {
	entry := models.CheckIn{}
	result := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("date DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.CheckIn{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CheckIn{}, false, nil
	}
	return entry, true, nil
}

func (repo *CheckInRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.CheckIn, error) {
	query := repo.database.Model(&models.CheckIn{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	entries := make([]models.CheckIn, 0)
	if err := query.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *CheckInRepository) Create(entry *models.CheckIn) error {
	return repo.database.Create(entry).Error
}

func (repo *CheckInRepository) Save(entry *models.CheckIn) error {
	return repo.database.Save(entry).Error
}
