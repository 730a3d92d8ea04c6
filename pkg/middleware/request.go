package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, taken from the incoming header when
// present, and logs the outcome of upload endpoints.
func RequestID(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Locals("requestID", requestID)
		c.Set(RequestIDHeader, requestID)

		start := time.Now()
		err := c.Next()

		if c.Method() == fiber.MethodPost {
			logger.Info("Request handled",
				zap.String("request_id", requestID),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
		}
		return err
	}
}
