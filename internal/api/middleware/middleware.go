package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request correlation id on responses.
const HeaderRequestID = "X-Request-Id"

// RequestLogger creates a logging middleware that tags every request
// with a correlation id and logs the outcome.
func RequestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		// Call the next handler
		err := c.Next()

		// Log after request is processed
		log.Printf(
			"%s %s %s %d %s %s",
			c.Method(),
			c.Path(),
			c.IP(),
			c.Response().StatusCode(),
			time.Since(start),
			requestID,
		)

		return err
	}
}
