package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// VocabularyHandler handles the personal dictionary routes
type VocabularyHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
}

// ListEntries handles GET /api/vocabulary
// @Summary List vocabulary
// @Description Lists the user's dictionary in the order entries were added
// @Tags Vocabulary
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.VocabularyEntry
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /vocabulary [get]
func (h *VocabularyHandler) ListEntries(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	entries, err := services.ListEntries(requestContext(c), h.DB, userID)
	if err != nil {
		return fail(c, h.Log, "vocabulary.list", err)
	}
	return c.JSON(entries)
}

// AddEntry handles POST /api/vocabulary
// @Summary Add a word
// @Description Adds a headword and definition. Examples and synonyms accept a string or a list.
// @Tags Vocabulary
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body services.EntryInput true "Entry"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /vocabulary [post]
func (h *VocabularyHandler) AddEntry(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var in services.EntryInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorFrom(c, err)
	}

	vocabID, err := services.AddEntry(requestContext(c), h.DB, userID, in)
	if err != nil {
		return fail(c, h.Log, "vocabulary.add", err)
	}
	return utils.MutationSuccessResponse(c, fiber.StatusCreated, fiber.Map{"vocab_id": vocabID})
}

// ToggleStatus handles PATCH /api/vocabulary/:vocabId/status
// @Summary Toggle studying/remembered
// @Tags Vocabulary
// @Produce json
// @Security CookieAuth
// @Param vocabId path string true "Vocabulary entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /vocabulary/{vocabId}/status [patch]
func (h *VocabularyHandler) ToggleStatus(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	status, err := services.ToggleStatus(requestContext(c), h.DB, userID, c.Params("vocabId"))
	if err != nil {
		return fail(c, h.Log, "vocabulary.toggle", err)
	}
	return utils.MutationSuccessResponse(c, fiber.StatusOK, fiber.Map{"status": status})
}

// DeleteEntry handles DELETE /api/vocabulary/:vocabId
// @Summary Delete a word
// @Description Deletes an entry. Decks created from it keep their copy.
// @Tags Vocabulary
// @Produce json
// @Security CookieAuth
// @Param vocabId path string true "Vocabulary entry ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /vocabulary/{vocabId} [delete]
func (h *VocabularyHandler) DeleteEntry(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	if err := services.DeleteEntry(requestContext(c), h.DB, userID, c.Params("vocabId")); err != nil {
		return fail(c, h.Log, "vocabulary.delete", err)
	}
	return utils.MutationSuccessResponse(c, fiber.StatusOK, nil)
}
