package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalcheck/internal/services"
)

type doseResponse struct {
	services.DoseView
	StatusLabel string `json:"status_label"`
}

type adherenceResponse struct {
	services.AdherenceReport
	From          string `json:"from"`
	To            string `json:"to"`
	CategoryLabel string `json:"category_label"`
}

func (handler *Handler) ListMedications(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	schedules, err := handler.medications.ListSchedules(userID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(schedules)
}

func (handler *Handler) CreateMedication(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	request := scheduleRequest{}
	if err := c.BodyParser(&request); err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_payload")
	}
	if err := handler.validate.Struct(request); err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_schedule")
	}

	input, err := handler.scheduleInput(request)
	if err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_schedule")
	}

	schedule, err := handler.medications.CreateSchedule(userID, input, handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (handler *Handler) DeactivateMedication(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	scheduleID, ok := parseIDParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_id")
	}

	schedule, err := handler.medications.DeactivateSchedule(userID, scheduleID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(schedule)
}

func (handler *Handler) GetDoses(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_day")
	}

	views, err := handler.medications.DosesForDay(userID, day, handler.currentTime(), handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}

	language := currentLanguage(c)
	response := make([]doseResponse, 0, len(views))
	for _, view := range views {
		response = append(response, handler.doseResponse(language, view))
	}
	return c.JSON(response)
}

func (handler *Handler) SetDoseTaken(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	doseID, ok := parseIDParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_id")
	}

	request := doseTakenRequest{}
	if err := c.BodyParser(&request); err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_payload")
	}
	if err := handler.validate.Struct(request); err != nil {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_payload")
	}

	view, err := handler.medications.SetDoseTaken(userID, doseID, *request.Taken, handler.currentTime())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.doseResponse(currentLanguage(c), view))
}

func (handler *Handler) ToggleDose(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	doseID, ok := parseIDParam(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_id")
	}

	view, err := handler.medications.ToggleDose(userID, doseID, handler.currentTime())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.doseResponse(currentLanguage(c), view))
}

func (handler *Handler) GetAdherence(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, ok := handler.parseRangeQuery(c)
	if !ok {
		return handler.fail(c, fiber.StatusBadRequest, "invalid_range")
	}

	report, err := handler.medications.AdherenceReport(userID, from, to, handler.currentTime(), handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(adherenceResponse{
		AdherenceReport: report,
		From:            services.FormatDay(from),
		To:              services.FormatDay(to),
		CategoryLabel:   handler.i18n.Translate(currentLanguage(c), "adherence.category."+report.Category),
	})
}

func (handler *Handler) doseResponse(language string, view services.DoseView) doseResponse {
	return doseResponse{
		DoseView:    view,
		StatusLabel: handler.i18n.Translate(language, "dose.status."+string(view.Status)),
	}
}

func (handler *Handler) scheduleInput(request scheduleRequest) (services.ScheduleInput, error) {
	input := services.ScheduleInput{
		Name:         request.Name,
		Dosage:       request.Dosage,
		Times:        request.Times,
		DurationDays: request.DurationDays,
		StartDate:    handler.currentTime(),
	}
	if request.StartDate != "" {
		start, err := services.ParseDay(request.StartDate, handler.location)
		if err != nil {
			return services.ScheduleInput{}, err
		}
		input.StartDate = start
	}
	if request.EndDate != "" {
		end, err := services.ParseDay(request.EndDate, handler.location)
		if err != nil {
			return services.ScheduleInput{}, err
		}
		input.EndDate = &end
	}
	return input, nil
}

