package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/testutil"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testutil.Config()
	app := fiber.New()
	app.Get("/me", AuthUser(cfg), func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(userID)
	})
	return app
}

func TestAuthUserCookie(t *testing.T) {
	app := newAuthApp(t)
	token, _, err := services.IssueSession(testutil.Config(), "user-42")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", services.SessionCookie+"="+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertStatus(t, resp, 200)
}

func TestAuthUserBearer(t *testing.T) {
	app := newAuthApp(t)
	token, _, _ := services.IssueSession(testutil.Config(), "user-42")

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertStatus(t, resp, 200)
}

func TestAuthUserRejects(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testutil.AssertErrorType(t, resp, 401, "auth.session")

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", services.SessionCookie+"=not-a-token")
	resp, _ = app.Test(req)
	testutil.AssertErrorType(t, resp, 401, "auth.session")
}

func TestRequestContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version": c.Locals(VersionKey),
			"id":      RequestID(c),
		})
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var body struct {
		Version string `json:"version"`
		ID      string `json:"id"`
	}
	testutil.ParseJSON(t, resp, &body)
	if body.Version != "1.0.0" {
		t.Errorf("Expected version alias to resolve, got %s", body.Version)
	}
	if body.ID == "" || resp.Header.Get(HeaderRequestID) != body.ID {
		t.Errorf("Expected request id echoed, got %q / %q", body.ID, resp.Header.Get(HeaderRequestID))
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc123")
	resp, _ = app.Test(req)
	if resp.Header.Get(HeaderRequestID) != "abc123" {
		t.Errorf("Expected incoming request id kept, got %q", resp.Header.Get(HeaderRequestID))
	}
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"http://localhost:5173"}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, _ = app.Test(req)
	testutil.AssertStatus(t, resp, 200)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}
