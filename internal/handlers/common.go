package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/types"
	"github.com/localnerve/lexideck/internal/utils"
)

// fail logs storage and upstream failures with the request id and renders the error envelope.
func fail(c *fiber.Ctx, log *logger.Logger, op string, err error) error {
	switch types.KindOf(err) {
	case types.KindStorage:
		log.Error("Request failed", "op", op, "request_id", middleware.RequestID(c), "error", err)
	case types.KindUnavailable:
		log.Warn("Upstream unavailable", "op", op, "request_id", middleware.RequestID(c), "error", err)
	}
	return utils.ErrorFrom(c, err)
}

// parseBody decodes the JSON body into dst, mapping decode errors to validation.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return types.Validation("Request body is not valid JSON.").Wrap(err)
	}
	return nil
}

// requestContext returns the context to pass to stores and services.
func requestContext(c *fiber.Ctx) context.Context {
	return c.UserContext()
}
