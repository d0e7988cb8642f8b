package middleware

import (
	"github.com/gofiber/fiber/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Locals keys and headers set per request
const (
	VersionKey      = "apiVersion"
	RequestIDKey    = "requestID"
	HeaderRequestID = "X-Request-Id"
)

// RequestContext parses the X-Api-Version header and assigns a request id,
// echoing it in the response.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" || version == "1" {
			version = "1.0.0"
		}
		c.Locals(VersionKey, version)

		requestID := c.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			id, err := gonanoid.New()
			if err != nil {
				return err
			}
			requestID = id
		}
		c.Locals(RequestIDKey, requestID)
		c.Set(HeaderRequestID, requestID)

		return c.Next()
	}
}

// RequestID returns the id assigned by RequestContext
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}
