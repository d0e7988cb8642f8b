package handlers

import (
	"math/rand/v2"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/study"
	"github.com/localnerve/lexideck/internal/utils"
	"gorm.io/gorm"
)

// StudyHandler drives a study session over a stored deck.
// The session itself lives with the client as a snapshot.
type StudyHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
	// Rand returns the source used by shuffle. Nil means a fresh random source per request.
	Rand func() *rand.Rand
}

// StudyRequest carries the current snapshot back with the next action
type StudyRequest struct {
	Session    study.Snapshot `json:"session"`
	Remembered bool           `json:"remembered"`
}

// StudyResponse describes the session after a transition
type StudyResponse struct {
	TestID     string            `json:"test_id"`
	Name       string            `json:"name"`
	Session    study.Snapshot    `json:"session"`
	Current    *models.DeckWord  `json:"current"`
	Words      []models.DeckWord `json:"words"`
	Total      int               `json:"total"`
	Remembered int               `json:"remembered"`
	Score      float64           `json:"score"`
	Completed  bool              `json:"completed"`
}

// Start handles POST /api/study/:testId/start
// @Summary Start studying a deck
// @Description Returns a new session showing the first card. An empty deck completes at once.
// @Tags Study
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Success 200 {object} StudyResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/{testId}/start [post]
func (h *StudyHandler) Start(c *fiber.Ctx) error {
	return h.transition(c, "study.start", false, func(deck *models.FlashcardDeck, _ StudyRequest) (study.Session, study.Session, error) {
		prev := study.New(deck.Words)
		next, err := prev.Start()
		return prev, next, err
	})
}

// Answer handles POST /api/study/:testId/answer
// @Summary Answer the current card
// @Tags Study
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Param body body StudyRequest true "Snapshot and answer"
// @Success 200 {object} StudyResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /study/{testId}/answer [post]
func (h *StudyHandler) Answer(c *fiber.Ctx) error {
	return h.transition(c, "study.answer", true, func(deck *models.FlashcardDeck, req StudyRequest) (study.Session, study.Session, error) {
		prev, err := study.Resume(deck.Words, req.Session)
		if err != nil {
			return prev, prev, err
		}
		next, err := prev.Answer(req.Remembered)
		return prev, next, err
	})
}

// Shuffle handles POST /api/study/:testId/shuffle
// @Summary Shuffle the cards
// @Description Only allowed before the first answer
// @Tags Study
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Param body body StudyRequest true "Snapshot"
// @Success 200 {object} StudyResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /study/{testId}/shuffle [post]
func (h *StudyHandler) Shuffle(c *fiber.Ctx) error {
	return h.transition(c, "study.shuffle", true, func(deck *models.FlashcardDeck, req StudyRequest) (study.Session, study.Session, error) {
		prev, err := study.Resume(deck.Words, req.Session)
		if err != nil {
			return prev, prev, err
		}
		next, err := prev.Shuffle(h.rng())
		return prev, next, err
	})
}

// Restart handles POST /api/study/:testId/restart
// @Summary Restart the deck
// @Description Clears progress and restores the original card order
// @Tags Study
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param testId path string true "Deck ID"
// @Param body body StudyRequest true "Snapshot"
// @Success 200 {object} StudyResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /study/{testId}/restart [post]
func (h *StudyHandler) Restart(c *fiber.Ctx) error {
	return h.transition(c, "study.restart", true, func(deck *models.FlashcardDeck, req StudyRequest) (study.Session, study.Session, error) {
		prev, err := study.Resume(deck.Words, req.Session)
		if err != nil {
			return prev, prev, err
		}
		return prev, prev.Restart(), nil
	})
}

type transitionFunc func(deck *models.FlashcardDeck, req StudyRequest) (prev, next study.Session, err error)

// transition loads the deck, applies apply and stores the score when the
// session has just completed.
func (h *StudyHandler) transition(c *fiber.Ctx, op string, withBody bool, apply transitionFunc) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	var req StudyRequest
	if withBody {
		if err := parseBody(c, &req); err != nil {
			return utils.ErrorFrom(c, err)
		}
	}

	ctx := requestContext(c)
	deck, err := services.LoadDeck(ctx, h.DB, userID, c.Params("testId"))
	if err != nil {
		return fail(c, h.Log, op, err)
	}

	prev, next, err := apply(deck, req)
	if err != nil {
		return fail(c, h.Log, op, err)
	}

	if prev.State() != study.Completed && next.State() == study.Completed {
		if err := services.FinalizeScore(ctx, h.DB, deck.TestID, next.Score(), userID, deck.Name); err != nil {
			return fail(c, h.Log, op+".finalize", err)
		}
	}

	return c.JSON(studyResponse(deck, next))
}

func (h *StudyHandler) rng() *rand.Rand {
	if h.Rand != nil {
		return h.Rand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func studyResponse(deck *models.FlashcardDeck, s study.Session) StudyResponse {
	resp := StudyResponse{
		TestID:     deck.TestID,
		Name:       deck.Name,
		Session:    s.Snapshot(),
		Words:      s.Words(),
		Total:      s.Total(),
		Remembered: s.Remembered(),
		Score:      s.Score(),
		Completed:  s.State() == study.Completed,
	}
	if word, ok := s.Current(); ok {
		resp.Current = &word
	}
	return resp
}
