package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/vitalcheck/internal/services"
)

func apiError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "code": code})
}

// fail replies with the localized text for an error key.
func (handler *Handler) fail(c *fiber.Ctx, status int, key string) error {
	return apiError(c, status, key, handler.i18n.Translate(currentLanguage(c), "error."+key))
}

func (handler *Handler) parseDayParam(c *fiber.Ctx) (time.Time, bool) {
	day, err := services.ParseDay(c.Params("date"), handler.location)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (handler *Handler) parseRangeQuery(c *fiber.Ctx) (time.Time, time.Time, bool) {
	from, to, err := services.ParseDateRange(c.Query("from"), c.Query("to"), handler.currentTime(), services.DefaultRangeDays, handler.location)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
