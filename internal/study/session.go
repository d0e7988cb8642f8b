// Package study holds the flashcard study state machine.
//
// A Session is an immutable value. Every transition returns a new Session
// and leaves its receiver untouched, so a snapshot can travel to the client
// and come back with the next answer.
package study

import (
	"math/rand/v2"
	"net/http"
	"slices"

	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/types"
)

// State of a study session
type State string

const (
	NotStarted State = "not_started"
	InProgress State = "in_progress"
	Completed  State = "completed"
)

var (
	ErrShuffleAfterStart = &types.CustomError{Code: http.StatusBadRequest, Kind: types.KindValidation, Type: "study.shuffle",
		Message: "Cards can only be shuffled before the first card is shown."}
	ErrNotInProgress = &types.CustomError{Code: http.StatusBadRequest, Kind: types.KindValidation, Type: "study.state",
		Message: "This study session is not in progress."}
	ErrInvalidSnapshot = &types.CustomError{Code: http.StatusBadRequest, Kind: types.KindValidation, Type: "study.snapshot",
		Message: "The study session does not match this deck. Please start again."}
)

// Snapshot is the client-held part of a session.
// Order holds indexes into the deck's original word list.
type Snapshot struct {
	State      State `json:"state"`
	Order      []int `json:"order"`
	Cursor     int   `json:"cursor"`
	Remembered int   `json:"remembered"`
}

// Session pairs a deck's words with a snapshot.
type Session struct {
	words      []models.DeckWord
	order      []int
	state      State
	cursor     int
	remembered int
}

// New builds a not-started session over words in their original order.
func New(words []models.DeckWord) Session {
	return Session{
		words: slices.Clone(words),
		order: identity(len(words)),
		state: NotStarted,
	}
}

// Resume rebuilds a session from a snapshot, rejecting snapshots that could
// not have been produced from words.
func Resume(words []models.DeckWord, snap Snapshot) (Session, error) {
	n := len(words)
	if len(snap.Order) != n || !isPermutation(snap.Order) {
		return Session{}, ErrInvalidSnapshot
	}
	if snap.Cursor < 0 || snap.Cursor > n || snap.Remembered < 0 || snap.Remembered > snap.Cursor {
		return Session{}, ErrInvalidSnapshot
	}

	switch snap.State {
	case NotStarted:
		if snap.Cursor != 0 {
			return Session{}, ErrInvalidSnapshot
		}
	case InProgress:
		if snap.Cursor == n && n > 0 {
			return Session{}, ErrInvalidSnapshot
		}
	case Completed:
		if snap.Cursor != n {
			return Session{}, ErrInvalidSnapshot
		}
	default:
		return Session{}, ErrInvalidSnapshot
	}

	return Session{
		words:      slices.Clone(words),
		order:      slices.Clone(snap.Order),
		state:      snap.State,
		cursor:     snap.Cursor,
		remembered: snap.Remembered,
	}, nil
}

// Start shows the first card. An empty deck completes immediately.
func (s Session) Start() (Session, error) {
	if s.state != NotStarted {
		return s, ErrNotInProgress.WithMessage("This study session has already started.")
	}
	next := s.clone()
	next.state = InProgress
	next.cursor = 0
	next.remembered = 0
	next.settle()
	return next, nil
}

// Shuffle permutes the cards. Only allowed before the first answer.
func (s Session) Shuffle(rng *rand.Rand) (Session, error) {
	if s.state == Completed || s.cursor != 0 {
		return s, ErrShuffleAfterStart
	}
	next := s.clone()
	rng.Shuffle(len(next.order), func(i, j int) {
		next.order[i], next.order[j] = next.order[j], next.order[i]
	})
	return next, nil
}

// Answer records the current card and advances the cursor by one.
func (s Session) Answer(remembered bool) (Session, error) {
	if s.state != InProgress {
		return s, ErrNotInProgress
	}
	next := s.clone()
	if remembered {
		next.remembered++
	}
	next.cursor++
	next.settle()
	return next, nil
}

// Restart clears progress, restores the original order and resumes studying.
func (s Session) Restart() Session {
	next := Session{
		words: slices.Clone(s.words),
		order: identity(len(s.words)),
		state: InProgress,
	}
	next.settle()
	return next
}

// Score is the percentage of remembered cards, 0 for an empty deck.
func (s Session) Score() float64 {
	if len(s.words) == 0 {
		return 0
	}
	return float64(s.remembered) / float64(len(s.words)) * 100
}

// Current returns the card being shown.
func (s Session) Current() (models.DeckWord, bool) {
	if s.state != InProgress || s.cursor >= len(s.order) {
		return models.DeckWord{}, false
	}
	return s.words[s.order[s.cursor]], true
}

// Words returns the cards in study order.
func (s Session) Words() []models.DeckWord {
	out := make([]models.DeckWord, len(s.order))
	for i, idx := range s.order {
		out[i] = s.words[idx]
	}
	return out
}

func (s Session) State() State    { return s.state }
func (s Session) Cursor() int     { return s.cursor }
func (s Session) Remembered() int { return s.remembered }
func (s Session) Total() int      { return len(s.words) }

// Snapshot returns the client-held part of the session.
func (s Session) Snapshot() Snapshot {
	return Snapshot{
		State:      s.state,
		Order:      slices.Clone(s.order),
		Cursor:     s.cursor,
		Remembered: s.remembered,
	}
}

func (s Session) clone() Session {
	s.words = slices.Clone(s.words)
	s.order = slices.Clone(s.order)
	return s
}

func (s *Session) settle() {
	if s.state == InProgress && s.cursor >= len(s.words) {
		s.state = Completed
	}
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func isPermutation(order []int) bool {
	seen := make([]bool, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(order) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
