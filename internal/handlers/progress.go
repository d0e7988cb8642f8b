package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/charts"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// ProgressHandler serves the progress report and its charts
type ProgressHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

func (h *ProgressHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// GetProgress handles GET /api/progress
// @Summary Progress report
// @Description Vocabulary and deck status counts, words added over the last 7 days, attempt history and translation stats
// @Tags Progress
// @Produce json
// @Security CookieAuth
// @Success 200 {object} services.ProgressReport
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	report, err := services.Progress(requestContext(c), h.DB, userID, h.now())
	if err != nil {
		return fail(c, h.Log, "progress", err)
	}
	return c.JSON(report)
}

// VocabularyChart handles GET /api/progress/charts/vocabulary.png
// @Summary Words added per day
// @Tags Progress
// @Produce png
// @Security CookieAuth
// @Success 200 {file} binary
// @Router /progress/charts/vocabulary.png [get]
func (h *ProgressHandler) VocabularyChart(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	series, err := services.CountAddedPerDay(requestContext(c), h.DB, userID, 7, h.now())
	if err != nil {
		return fail(c, h.Log, "progress.chart.vocabulary", err)
	}
	png, err := charts.VocabularyActivity(series)
	if err != nil {
		return fail(c, h.Log, "progress.chart.vocabulary", err)
	}
	return sendPNG(c, png)
}

// ScoreChart handles GET /api/progress/charts/scores.png
// @Summary Flashcard scores over time
// @Tags Progress
// @Produce png
// @Security CookieAuth
// @Success 200 {file} binary
// @Router /progress/charts/scores.png [get]
func (h *ProgressHandler) ScoreChart(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	records, err := services.AttemptHistory(requestContext(c), h.DB, userID)
	if err != nil {
		return fail(c, h.Log, "progress.chart.scores", err)
	}
	png, err := charts.ScoreHistory(records)
	if err != nil {
		return fail(c, h.Log, "progress.chart.scores", err)
	}
	return sendPNG(c, png)
}

func sendPNG(c *fiber.Ctx, png []byte) error {
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}
