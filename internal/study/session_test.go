package study

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/localnerve/lexideck/internal/models"
)

func deckWords(n int) []models.DeckWord {
	words := make([]models.DeckWord, n)
	for i := range words {
		words[i] = models.DeckWord{
			VocabID:    string(rune('a' + i)),
			Headword:   "word" + string(rune('a'+i)),
			Definition: "nghĩa " + string(rune('a'+i)),
		}
	}
	return words
}

func TestNAnswersReachCompleted(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		s, err := New(deckWords(n)).Start()
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		for i := 0; i < n; i++ {
			if s.State() != InProgress {
				t.Fatalf("n=%d: expected in_progress before answer %d, got %s", n, i, s.State())
			}
			if s, err = s.Answer(i%2 == 0); err != nil {
				t.Fatalf("n=%d: answer %d failed: %v", n, i, err)
			}
			if s.Remembered() > n {
				t.Fatalf("remembered %d exceeds deck size %d", s.Remembered(), n)
			}
		}
		if s.State() != Completed {
			t.Errorf("n=%d: expected completed after %d answers, got %s", n, n, s.State())
		}
		if _, err := s.Answer(true); !errors.Is(err, ErrNotInProgress) {
			t.Errorf("Expected ErrNotInProgress answering a completed session, got %v", err)
		}
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	start, _ := New(deckWords(3)).Start()
	next, err := start.Answer(true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if start.Cursor() != 0 || start.Remembered() != 0 {
		t.Error("Answer mutated its receiver")
	}
	if next.Cursor() != 1 || next.Remembered() != 1 {
		t.Errorf("Unexpected next state cursor=%d remembered=%d", next.Cursor(), next.Remembered())
	}

	shuffled, err := start.Shuffle(rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Shuffle failed: %v", err)
	}
	if !slices.Equal(start.Snapshot().Order, []int{0, 1, 2}) {
		t.Error("Shuffle mutated its receiver")
	}
	_ = shuffled
}

func TestShuffleKeepsEveryWord(t *testing.T) {
	s := New(deckWords(8))
	shuffled, err := s.Shuffle(rand.New(rand.NewPCG(42, 7)))
	if err != nil {
		t.Fatalf("Shuffle failed: %v", err)
	}
	order := slices.Clone(shuffled.Snapshot().Order)
	slices.Sort(order)
	if !slices.Equal(order, []int{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("Shuffle dropped or duplicated words: %v", shuffled.Snapshot().Order)
	}
	if len(shuffled.Words()) != 8 {
		t.Errorf("Expected 8 words, got %d", len(shuffled.Words()))
	}
}

func TestShuffleAfterFirstAnswer(t *testing.T) {
	s, _ := New(deckWords(3)).Start()
	s, _ = s.Answer(false)
	if _, err := s.Shuffle(rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrShuffleAfterStart) {
		t.Errorf("Expected ErrShuffleAfterStart, got %v", err)
	}
}

func TestRestartRestoresOriginalOrder(t *testing.T) {
	s := New(deckWords(5))
	s, _ = s.Shuffle(rand.New(rand.NewPCG(3, 9)))
	s, _ = s.Start()
	s, _ = s.Answer(true)
	s, _ = s.Answer(true)

	r := s.Restart()
	if r.State() != InProgress || r.Cursor() != 0 || r.Remembered() != 0 {
		t.Errorf("Unexpected restarted state %s cursor=%d remembered=%d", r.State(), r.Cursor(), r.Remembered())
	}
	if !slices.Equal(r.Snapshot().Order, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Expected original order, got %v", r.Snapshot().Order)
	}
	if w, ok := r.Current(); !ok || w.VocabID != "a" {
		t.Errorf("Expected first original word, got %+v", w)
	}
}

func TestScore(t *testing.T) {
	s, _ := New(deckWords(4)).Start()
	s, _ = s.Answer(true)
	s, _ = s.Answer(false)
	s, _ = s.Answer(true)
	s, _ = s.Answer(true)
	if s.Score() != 75 {
		t.Errorf("Expected score 75, got %v", s.Score())
	}

	empty, err := New(nil).Start()
	if err != nil {
		t.Fatalf("Start on empty deck failed: %v", err)
	}
	if empty.State() != Completed || empty.Score() != 0 {
		t.Errorf("Expected empty deck to complete with score 0, got %s %v", empty.State(), empty.Score())
	}
}

func TestStartTwice(t *testing.T) {
	s, _ := New(deckWords(2)).Start()
	if _, err := s.Start(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Expected error starting twice, got %v", err)
	}
}

func TestResumeValidatesSnapshot(t *testing.T) {
	words := deckWords(3)
	tests := []struct {
		name string
		snap Snapshot
		ok   bool
	}{
		{"valid", Snapshot{State: InProgress, Order: []int{2, 0, 1}, Cursor: 1, Remembered: 1}, true},
		{"completed", Snapshot{State: Completed, Order: []int{0, 1, 2}, Cursor: 3, Remembered: 3}, true},
		{"wrong length", Snapshot{State: InProgress, Order: []int{0, 1}, Cursor: 0}, false},
		{"duplicate index", Snapshot{State: InProgress, Order: []int{0, 0, 1}, Cursor: 0}, false},
		{"cursor past end", Snapshot{State: InProgress, Order: []int{0, 1, 2}, Cursor: 3}, false},
		{"remembered ahead of cursor", Snapshot{State: InProgress, Order: []int{0, 1, 2}, Cursor: 1, Remembered: 2}, false},
		{"not started with cursor", Snapshot{State: NotStarted, Order: []int{0, 1, 2}, Cursor: 1}, false},
		{"unknown state", Snapshot{State: "paused", Order: []int{0, 1, 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resume(words, tt.snap)
			if tt.ok && err != nil {
				t.Errorf("Expected valid snapshot, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("Expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestResumeContinues(t *testing.T) {
	words := deckWords(2)
	s, err := Resume(words, Snapshot{State: InProgress, Order: []int{1, 0}, Cursor: 1, Remembered: 0})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if w, _ := s.Current(); w.VocabID != "a" {
		t.Errorf("Expected word a at cursor 1, got %s", w.VocabID)
	}
	s, _ = s.Answer(true)
	if s.State() != Completed || s.Score() != 50 {
		t.Errorf("Expected completed at 50, got %s %v", s.State(), s.Score())
	}
}
