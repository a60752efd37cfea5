package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.LanguageMiddleware)

	auth := api.Group("/auth")
	auth.Get("/csrf", handler.CSRFToken)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Put("/consent", handler.AuthRequired, handler.UpdateConsent)

	pressure := api.Group("/blood-pressure", handler.AuthRequired)
	pressure.Get("", handler.pressure.list)
	pressure.Post("", handler.pressure.create)
	pressure.Put("/:id", handler.pressure.update)
	pressure.Delete("/:id", handler.pressure.delete)

	sugar := api.Group("/blood-sugar", handler.AuthRequired)
	sugar.Get("", handler.sugar.list)
	sugar.Post("", handler.sugar.create)
	sugar.Put("/:id", handler.sugar.update)
	sugar.Delete("/:id", handler.sugar.delete)

	api.Get("/stats", handler.AuthRequired, handler.GetStats)
	api.Get("/export/weekly.pdf", handler.AuthRequired, handler.ExportWeeklyPDF)
	api.Post("/email/send-data", handler.AuthRequired, handler.SendDataToClinic)
	api.Post("/cleanup", handler.RunCleanup)
}
