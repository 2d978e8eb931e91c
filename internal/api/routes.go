package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api", handler.AuthRequired)

	checkIns := api.Group("/checkins")
	checkIns.Get("", handler.ListCheckIns)
	checkIns.Get("/vocabulary", handler.CheckInVocabulary)
	checkIns.Get("/:date", handler.GetCheckIn)
	checkIns.Put("/:date/:section", handler.UpdateCheckInSection)
	checkIns.Post("/:date/finalize", handler.FinalizeCheckIn)

	api.Get("/progress", handler.ListProgress)
	api.Post("/progress/rebuild", handler.RebuildProgress)

	medications := api.Group("/medications")
	medications.Get("", handler.ListMedications)
	medications.Post("", handler.CreateMedication)
	medications.Delete("/:id", handler.DeactivateMedication)

	doses := api.Group("/doses")
	doses.Get("/:date", handler.GetDoses)
	doses.Put("/:id", handler.SetDoseTaken)
	doses.Post("/:id/toggle", handler.ToggleDose)

	api.Get("/adherence", handler.GetAdherence)

	app.Use(handler.NotFound)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not_found", "not found")
}
