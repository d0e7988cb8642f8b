package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/cors"
)

// CORS wraps rs/cors for Fiber. An empty origin list disables CORS headers.
func CORS(origins []string) fiber.Handler {
	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Api-Version", HeaderRequestID, "Accept", "Origin"},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler
	return adaptor.HTTPMiddleware(handler)
}
