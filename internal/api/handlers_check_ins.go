package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"github.com/terraincognita07/vitalcheck/internal/services"
	"go.uber.org/zap"
)

type checkInResponse struct {
	CheckIn models.CheckIn `json:"check_in"`
	Flags   *flagSetView   `json:"flags,omitempty"`
}

func (handler *Handler) ListCheckIns(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, ok := handler.parseRangeQuery(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_range")
	}

	entries, err := handler.checkIns.ListCheckIns(userID, from, to, handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) GetCheckIn(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_day")
	}

	entry, err := handler.checkIns.FetchCheckIn(userID, day, handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.checkInResponse(c, entry))
}

func (handler *Handler) UpdateCheckInSection(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_day")
	}

	section, known, err := handler.decodeSection(c, c.Params("section"))
	if !known {
		return handler.fail(c, fiber.StatusNotFound, "invalid_section")
	}
	if err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_payload")
	}

	entry, err := handler.checkIns.UpdateDraft(userID, day, handler.location, section)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.checkInResponse(c, entry))
}

func (handler *Handler) FinalizeCheckIn(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_day")
	}

	entry, flags, err := handler.checkIns.Finalize(c.UserContext(), userID, day, handler.currentTime(), handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}

	localized := handler.localizeFlags(currentLanguage(c), flags)
	return c.JSON(checkInResponse{CheckIn: entry, Flags: &localized})
}

func (handler *Handler) ListProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, ok := handler.parseRangeQuery(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_range")
	}

	points, err := handler.checkIns.ListProgress(userID, from, to, handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(points)
}

func (handler *Handler) RebuildProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, ok := handler.parseRangeQuery(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_range")
	}
	rebuilt, err := handler.checkIns.RebuildProgress(userID, from, to, handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"rebuilt": rebuilt})
}

// CheckInVocabulary lists the tags the physical and mental sections accept.
func (handler *Handler) CheckInVocabulary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"symptoms":         services.SymptomVocabulary(),
		"emotional_states": services.EmotionalStateVocabulary(),
	})
}

func (handler *Handler) checkInResponse(c *fiber.Ctx, entry models.CheckIn) checkInResponse {
	response := checkInResponse{CheckIn: entry}
	if entry.IsFinalized() {
		localized := handler.localizeFlags(currentLanguage(c), services.DetectFlags(entry))
		response.Flags = &localized
	}
	return response
}

// decodeSection maps a URL section name to its draft input. known is false for unknown names.
func (handler *Handler) decodeSection(c *fiber.Ctx, name string) (services.DraftSection, bool, error) {
	switch name {
	case "physical":
		return decodeSectionBody[services.PhysicalInput](c)
	case "mental":
		return decodeSectionBody[services.MentalInput](c)
	case "medication":
		return decodeSectionBody[services.MedicationInput](c)
	case "nutrition":
		return decodeSectionBody[services.NutritionInput](c)
	case "sleep":
		return decodeSectionBody[services.SleepInput](c)
	case "activity":
		return decodeSectionBody[services.ActivityInput](c)
	case "vitals":
		return decodeSectionBody[services.VitalsInput](c)
	case "care-team":
		return decodeSectionBody[services.CareTeamInput](c)
	default:
		return nil, false, nil
	}
}

func decodeSectionBody[T services.DraftSection](c *fiber.Ctx) (services.DraftSection, bool, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, true, err
	}
	return input, true, nil
}

func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCheckInFinalized), errors.Is(err, services.ErrCheckInAlreadyFinalized):
		return handler.fail(c, fiber.StatusConflict, "check_in_finalized")
	case errors.Is(err, services.ErrInvalidAdherenceCategory):
		return handler.fail(c, fiber.StatusBadRequest, "invalid_adherence_category")
	case errors.Is(err, services.ErrInvalidMealPlanCategory):
		return handler.fail(c, fiber.StatusBadRequest, "invalid_meal_plan_category")
	case errors.Is(err, services.ErrInvalidScheduleName),
		errors.Is(err, services.ErrInvalidScheduleTimes),
		errors.Is(err, services.ErrInvalidScheduleRange):
		return handler.fail(c, fiber.StatusBadRequest, "invalid_schedule")
	case errors.Is(err, services.ErrScheduleNotFound):
		return handler.fail(c, fiber.StatusNotFound, "schedule_not_found")
	case errors.Is(err, services.ErrDoseNotFound):
		return handler.fail(c, fiber.StatusNotFound, "dose_not_found")
	case errors.Is(err, services.ErrInvalidDay):
		return handler.fail(c, fiber.StatusBadRequest, "invalid_day")
	default:
		handler.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return handler.fail(c, fiber.StatusInternalServerError, "internal")
	}
}
