package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/types"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// FlashcardHandler handles deck routes
type FlashcardHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
}

// CreateDeckRequest is the payload of POST /api/flashcards.
// vocab_ids accepts a single id or a list.
type CreateDeckRequest struct {
	Name     string                 `json:"name"`
	VocabIDs types.FlexList[string] `json:"vocab_ids"`
}

// ListDecks handles GET /api/flashcards
// @Summary List decks
// @Description Deck summaries without words, most recently updated first
// @Tags Flashcards
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.DeckSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /flashcards [get]
func (h *FlashcardHandler) ListDecks(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	decks, err := services.ListDecks(requestContext(c), h.DB, userID)
	if err != nil {
		return fail(c, h.Log, "flashcards.list", err)
	}
	return c.JSON(decks)
}

// CreateDeck handles POST /api/flashcards
// @Summary Create a deck
// @Description Copies the selected dictionary entries into a new deck, in the given order
// @Tags Flashcards
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body CreateDeckRequest true "Deck"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /flashcards [post]
func (h *FlashcardHandler) CreateDeck(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var req CreateDeckRequest
	if err := parseBody(c, &req); err != nil {
		return utils.ErrorFrom(c, err)
	}

	testID, err := services.CreateDeck(requestContext(c), h.DB, userID, req.Name, req.VocabIDs.Slice())
	if err != nil {
		return fail(c, h.Log, "flashcards.create", err)
	}
	return utils.MutationSuccessResponse(c, fiber.StatusCreated, fiber.Map{"test_id": testID})
}

// GetDeck handles GET /api/flashcards/:testId
// @Summary Load a deck
// @Tags Flashcards
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Success 200 {object} models.FlashcardDeck
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /flashcards/{testId} [get]
func (h *FlashcardHandler) GetDeck(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	deck, err := services.LoadDeck(requestContext(c), h.DB, userID, c.Params("testId"))
	if err != nil {
		return fail(c, h.Log, "flashcards.load", err)
	}
	return c.JSON(deck)
}

// DeleteDeck handles DELETE /api/flashcards/:testId
// @Summary Delete a deck
// @Tags Flashcards
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /flashcards/{testId} [delete]
func (h *FlashcardHandler) DeleteDeck(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	if err := services.DeleteDeck(requestContext(c), h.DB, userID, c.Params("testId")); err != nil {
		return fail(c, h.Log, "flashcards.delete", err)
	}
	return utils.MutationSuccessResponse(c, fiber.StatusOK, nil)
}

// History handles GET /api/flashcards/history
// @Summary Attempt history
// @Tags Flashcards
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.FlashcardAttempt
// @Router /flashcards/history [get]
func (h *FlashcardHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	records, err := services.AttemptHistory(requestContext(c), h.DB, userID)
	if err != nil {
		return fail(c, h.Log, "flashcards.history", err)
	}
	return c.JSON(records)
}
