package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles account routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *logger.Logger
}

// RegisterRequest is the payload of POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the payload of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned when a session starts
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Creates an account and starts a session. The username is checked before the email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Credentials"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return utils.ErrorFrom(c, err)
	}

	userID, err := services.Register(requestContext(c), h.DB, req.Username, req.Password, req.Email, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, h.Log, "auth.register", err)
	}
	h.Log.Info("User registered", "user_id", userID)

	return h.startSession(c, userID, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return utils.ErrorFrom(c, err)
	}

	userID, err := services.Authenticate(requestContext(c), h.DB, req.Username, req.Password)
	if err != nil {
		return fail(c, h.Log, "auth.login", err)
	}

	return h.startSession(c, userID, fiber.StatusOK)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, userID string, status int) error {
	token, expiresAt, err := services.IssueSession(h.Cfg, userID)
	if err != nil {
		return fail(c, h.Log, "auth.session", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(status).JSON(SessionResponse{UserID: userID, ExpiresAt: expiresAt})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.MutationSuccessResponse(c, fiber.StatusOK, nil)
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	user, err := services.GetUser(requestContext(c), h.DB, userID)
	if err != nil {
		return fail(c, h.Log, "auth.me", err)
	}
	return c.JSON(user)
}
