package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/lexicon"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/scoring"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/translation"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// Dictionary looks up the senses of an English word.
type Dictionary interface {
	Lookup(ctx context.Context, word string) ([]lexicon.Sense, error)
}

// LanguageHandler exposes translation, lookup and translation scoring
type LanguageHandler struct {
	DB         *gorm.DB
	Log        *logger.Logger
	Translator translation.Translator
	Dictionary Dictionary
	Evaluator  *scoring.Evaluator
}

// TranslateRequest is the payload of POST /api/translate
type TranslateRequest struct {
	Text string `json:"text"`
}

// TranslateResponse holds the Vietnamese translation
type TranslateResponse struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// LookupResponse lists the senses found for a word. Senses is empty when the word is unknown.
type LookupResponse struct {
	Word   string          `json:"word"`
	Senses []lexicon.Sense `json:"senses"`
}

// EvaluateRequest is the payload of POST /api/evaluate
type EvaluateRequest struct {
	Source      string `json:"source"`
	Translation string `json:"translation"`
}

// EvaluateResponse is the score of one translation and the user's running stats
type EvaluateResponse struct {
	scoring.Result
	Stats *models.TranslationEvaluation `json:"stats,omitempty"`
}

// Translate handles POST /api/translate
// @Summary Translate English to Vietnamese
// @Tags Language
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body TranslateRequest true "Text"
// @Success 200 {object} TranslateResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /translate [post]
func (h *LanguageHandler) Translate(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.ErrorFrom(c, err)
	}

	out, err := translation.Translate(requestContext(c), h.Translator, req.Text)
	if err != nil {
		return fail(c, h.Log, "translate", err)
	}
	return c.JSON(TranslateResponse{Text: req.Text, Translation: out})
}

// Lookup handles GET /api/lookup/:word
// @Summary Look up a word
// @Description Senses with Vietnamese definitions, examples containing the word and synonyms
// @Tags Language
// @Produce json
// @Security CookieAuth
// @Param word path string true "English word"
// @Success 200 {object} LookupResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /lookup/{word} [get]
func (h *LanguageHandler) Lookup(c *fiber.Ctx) error {
	word := c.Params("word")
	senses, err := h.Dictionary.Lookup(requestContext(c), word)
	if err != nil {
		return fail(c, h.Log, "lookup", err)
	}
	if senses == nil {
		senses = []lexicon.Sense{}
	}
	return c.JSON(LookupResponse{Word: word, Senses: senses})
}

// Evaluate handles POST /api/evaluate
// @Summary Score a translation
// @Description Compares the user's translation with the machine translation of the source
// @Tags Language
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body EvaluateRequest true "Source and translation"
// @Success 200 {object} EvaluateResponse
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /evaluate [post]
func (h *LanguageHandler) Evaluate(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var req EvaluateRequest
	if err := parseBody(c, &req); err != nil {
		return utils.ErrorFrom(c, err)
	}

	ctx := requestContext(c)
	result, err := h.Evaluator.Evaluate(ctx, req.Source, req.Translation)
	if err != nil {
		return fail(c, h.Log, "evaluate", err)
	}

	resp := EvaluateResponse{Result: result}
	if result.Message == "" {
		stats, err := services.RecordEvaluation(ctx, h.DB, userID, result.Score)
		if err != nil {
			return fail(c, h.Log, "evaluate.record", err)
		}
		resp.Stats = stats
	}
	return c.JSON(resp)
}
