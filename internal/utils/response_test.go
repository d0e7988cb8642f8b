package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/testutil"
	"github.com/localnerve/lexideck/internal/types"
)

func TestErrorFrom(t *testing.T) {
	app := fiber.New()
	app.Get("/dup", func(c *fiber.Ctx) error {
		return ErrorFrom(c, types.ErrDuplicateName)
	})
	app.Get("/down", func(c *fiber.Ctx) error {
		return ErrorFrom(c, types.Unavailable("translation", errors.New("timeout")))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return ErrorFrom(c, errors.New("pq: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/dup", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertErrorType(t, resp, 409, "flashcards.duplicate.name")

	resp, _ = app.Test(httptest.NewRequest("GET", "/down", nil))
	body := testutil.AssertErrorType(t, resp, 503, "service.unavailable")
	if !body.Retry {
		t.Error("Expected retry=true for unavailable service")
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/boom", nil))
	body = testutil.AssertErrorType(t, resp, 500, "storage")
	if body.Message == "pq: connection refused" {
		t.Error("Storage cause leaked to the client")
	}
}
