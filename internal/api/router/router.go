package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	handler "github.com/nvcfund/finmsg/internal/api/handlers"
	"github.com/nvcfund/finmsg/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(bicHandler *handler.BICHandler, messageHandler *handler.MessageHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c fiber.Ctx, err error) error {
			// Default error handler
			code := fiber.StatusInternalServerError

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"message": "Internal server error",
			})
		},
	})

	// Add global middleware
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())

	// API versioning
	v1 := app.Group("/v1")

	// BIC directory endpoints
	v1.Get("/bics/:bic/validation", bicHandler.Validate)
	v1.Get("/bics/:bic", bicHandler.Lookup)
	v1.Get("/bics/country/:countryISO2code", bicHandler.SearchByCountry)
	v1.Post("/bics", bicHandler.Register)
	v1.Post("/routing", bicHandler.Route)

	// SWIFT MT message endpoints
	v1.Post("/messages/mt760", messageHandler.BuildMT760)
	v1.Post("/messages/transfers", messageHandler.BuildFundsTransfer)
	v1.Post("/messages/mt799", messageHandler.BuildMT799)

	// ISO 20022 message endpoints
	v1.Post("/messages/payments", messageHandler.CreateOutboundPayment)
	v1.Post("/messages/statements", messageHandler.BuildStatement)
	v1.Post("/messages/direct-debits", messageHandler.BuildDirectDebit)
	v1.Post("/messages/notifications", messageHandler.BuildNotification)
	v1.Post("/messages/status-reports", messageHandler.BuildStatusReport)
	v1.Post("/messages/inbound", messageHandler.ProcessInbound)
	v1.Post("/messages/validation", messageHandler.ValidateStructure)

	return app
}
