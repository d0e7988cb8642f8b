package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/types"
	"github.com/localnerve/lexideck/internal/utils"
)

// Set groups the route handlers mounted under /api
type Set struct {
	Auth       *AuthHandler
	Vocabulary *VocabularyHandler
	Flashcards *FlashcardHandler
	Study      *StudyHandler
	Language   *LanguageHandler
	Progress   *ProgressHandler
	Health     *HealthHandler
}

// Mount registers every route on api. Everything except health, register
// and login requires a session.
func Mount(api fiber.Router, cfg *config.Config, h Set) {
	api.Get("/health", h.Health.HealthCheck)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/me", middleware.AuthUser(cfg), h.Auth.Me)

	user := api.Group("", middleware.AuthUser(cfg))

	user.Get("/vocabulary", h.Vocabulary.ListEntries)
	user.Post("/vocabulary", h.Vocabulary.AddEntry)
	user.Patch("/vocabulary/:vocabId/status", h.Vocabulary.ToggleStatus)
	user.Delete("/vocabulary/:vocabId", h.Vocabulary.DeleteEntry)

	// history is registered before :testId so it is not taken for an id
	user.Get("/flashcards/history", h.Flashcards.History)
	user.Get("/flashcards", h.Flashcards.ListDecks)
	user.Post("/flashcards", h.Flashcards.CreateDeck)
	user.Get("/flashcards/:testId", h.Flashcards.GetDeck)
	user.Delete("/flashcards/:testId", h.Flashcards.DeleteDeck)

	user.Post("/study/:testId/start", h.Study.Start)
	user.Post("/study/:testId/answer", h.Study.Answer)
	user.Post("/study/:testId/shuffle", h.Study.Shuffle)
	user.Post("/study/:testId/restart", h.Study.Restart)

	user.Post("/translate", h.Language.Translate)
	user.Post("/evaluate", h.Language.Evaluate)
	user.Get("/lookup/:word", h.Language.Lookup)

	user.Get("/progress", h.Progress.GetProgress)
	user.Get("/progress/charts/vocabulary.png", h.Progress.VocabularyChart)
	user.Get("/progress/charts/scores.png", h.Progress.ScoreChart)
}

// ErrorHandler renders errors that escape a handler. Fiber errors keep
// their code and message; everything else goes through the error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		ce := &types.CustomError{Code: fe.Code, Message: fe.Message, Type: "http", Kind: types.KindValidation}
		if fe.Code >= fiber.StatusInternalServerError {
			ce.Kind = types.KindStorage
		}
		return utils.ErrorFrom(c, ce)
	}
	return utils.ErrorFrom(c, err)
}

// NotFound is the fallback for unknown routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}
