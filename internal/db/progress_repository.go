package db

import (
	"time"

	"github.com/terraincognita07/vitalcheck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	database *gorm.DB
}

func NewProgressRepository(database *gorm.DB) *ProgressRepository {
	return &ProgressRepository{database: database}
}

// Upsert keeps one point per user and day. The latest projection wins.
func (repo *ProgressRepository) Upsert(point *models.ProgressPoint) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"check_in_completion",
			"medication_score",
			"exercise_score",
			"mood_score",
			"sleep_score",
			"overall_score",
			"updated_at",
		}),
	}).Create(point).Error
}

func (repo *ProgressRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.ProgressPoint, error) {
	query := repo.database.Model(&models.ProgressPoint{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	points := make([]models.ProgressPoint, 0)
	if err := query.Order("date ASC").Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
