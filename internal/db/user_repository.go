package db

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/vitalcheck/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

// FindOrCreateByEmail matches on the trimmed lower-case address.
func (repo *UserRepository) FindOrCreateByEmail(email string, now time.Time) (models.User, bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return models.User{}, false, errors.New("email is required")
	}

	user, err := repo.FindByNormalizedEmail(normalized)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, err
	}

	user = models.User{
		Email:     normalized,
		CreatedAt: now.UTC(),
	}
	if err := repo.Create(&user); err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}
