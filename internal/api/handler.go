package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/vitalcheck/internal/i18n"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"github.com/terraincognita07/vitalcheck/internal/security"
	"github.com/terraincognita07/vitalcheck/internal/services"
	"go.uber.org/zap"
)

type UserLookup interface {
	FindByID(userID uint) (models.User, error)
}

type Dependencies struct {
	CheckIns    *services.CheckInService
	Medications *services.MedicationService
	Users       UserLookup
	Tokens      *security.TokenIssuer
	I18n        *i18n.Manager
	Location    *time.Location
	Logger      *zap.Logger
	Now         func() time.Time
}

type Handler struct {
	checkIns    *services.CheckInService
	medications *services.MedicationService
	users       UserLookup
	tokens      *security.TokenIssuer
	i18n        *i18n.Manager
	location    *time.Location
	logger      *zap.Logger
	validate    *validator.Validate
	now         func() time.Time
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.CheckIns == nil || deps.Medications == nil {
		return nil, errors.New("check-in and medication services are required")
	}
	if deps.Users == nil || deps.Tokens == nil {
		return nil, errors.New("user lookup and token issuer are required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}

	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		checkIns:    deps.CheckIns,
		medications: deps.Medications,
		users:       deps.Users,
		tokens:      deps.Tokens,
		i18n:        deps.I18n,
		location:    location,
		logger:      logger.Named("api"),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         now,
	}, nil
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().In(handler.location)
}
