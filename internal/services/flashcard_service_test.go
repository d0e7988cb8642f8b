package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/study"
	"github.com/localnerve/lexideck/internal/testutil"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestCreateDeckValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	lan := testutil.CreateTestUser(t, db, "lan")
	mai := testutil.CreateTestUser(t, db, "mai")
	cat := testutil.CreateTestEntry(t, db, lan, "cat", "con mèo", time.Now())
	bird := testutil.CreateTestEntry(t, db, mai, "bird", "con chim", time.Now())

	if _, err := CreateDeck(ctx, db, lan, " ", []string{cat}); types.KindOf(err) != types.KindValidation {
		t.Errorf("Expected validation error for blank name, got %v", err)
	}
	if _, err := CreateDeck(ctx, db, lan, "Animals", nil); !errors.Is(err, types.ErrEmptySelection) {
		t.Errorf("Expected ErrEmptySelection, got %v", err)
	}
	if _, err := CreateDeck(ctx, db, lan, "Animals", []string{cat, bird}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user's entry, got %v", err)
	}
	if _, err := CreateDeck(ctx, db, lan, "Animals", []string{cat}); err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := CreateDeck(ctx, db, lan, "Animals", []string{cat}); !errors.Is(err, types.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
	if _, err := CreateDeck(ctx, db, mai, "Animals", []string{bird}); err != nil {
		t.Errorf("Expected another user to reuse the name, got %v", err)
	}
}

func TestCreateDeckKeepsCallerOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")
	cat := testutil.CreateTestEntry(t, db, userID, "cat", "con mèo", time.Now())
	dog := testutil.CreateTestEntry(t, db, userID, "dog", "con chó", time.Now())

	testID, err := CreateDeck(ctx, db, userID, "Pets", []string{dog, cat, dog})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	deck, err := LoadDeck(ctx, db, userID, testID)
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if len(deck.Words) != 2 || deck.Words[0].VocabID != dog || deck.Words[1].VocabID != cat {
		t.Errorf("Unexpected words %+v", deck.Words)
	}
	if deck.Status != models.DeckNotStarted || deck.Score != 0 {
		t.Errorf("Unexpected status %s score %v", deck.Status, deck.Score)
	}
}

func TestSnapshotSurvivesEntryDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")
	cat := testutil.CreateTestEntry(t, db, userID, "cat", "con mèo", time.Now())

	testID, err := CreateDeck(ctx, db, userID, "Animals", []string{cat})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if err := DeleteEntry(ctx, db, userID, cat); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	deck, err := LoadDeck(ctx, db, userID, testID)
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if len(deck.Words) != 1 || deck.Words[0].Headword != "cat" || deck.Words[0].Definition != "con mèo" {
		t.Errorf("Expected original snapshot, got %+v", deck.Words)
	}
}

func TestListDecksNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")
	cat := testutil.CreateTestEntry(t, db, userID, "cat", "con mèo", time.Now())

	restore := now
	defer func() { now = restore }()

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	older, _ := CreateDeck(ctx, db, userID, "Older", []string{cat})
	now = func() time.Time { return base.Add(time.Hour) }
	newer, _ := CreateDeck(ctx, db, userID, "Newer", []string{cat})

	decks, err := ListDecks(ctx, db, userID)
	if err != nil {
		t.Fatalf("ListDecks failed: %v", err)
	}
	if len(decks) != 2 || decks[0].TestID != newer || decks[1].TestID != older {
		t.Fatalf("Unexpected order %+v", decks)
	}

	// finishing the older deck moves it to the top
	now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := FinalizeScore(ctx, db, older, 50, userID, ""); err != nil {
		t.Fatalf("FinalizeScore failed: %v", err)
	}
	decks, _ = ListDecks(ctx, db, userID)
	if decks[0].TestID != older {
		t.Errorf("Expected finalized deck first, got %+v", decks)
	}
}

func TestDeleteDeck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	lan := testutil.CreateTestUser(t, db, "lan")
	mai := testutil.CreateTestUser(t, db, "mai")
	cat := testutil.CreateTestEntry(t, db, lan, "cat", "con mèo", time.Now())
	testID, _ := CreateDeck(ctx, db, lan, "Animals", []string{cat})

	if err := DeleteDeck(ctx, db, mai, testID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}
	if err := DeleteDeck(ctx, db, lan, testID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if _, err := LoadDeck(ctx, db, lan, testID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestFinalizeScoreValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")

	for _, score := range []float64{-1, 100.5} {
		if err := FinalizeScore(ctx, db, "any", score, userID, "x"); types.KindOf(err) != types.KindValidation {
			t.Errorf("score %v: expected validation error, got %v", score, err)
		}
	}
	if err := FinalizeScore(ctx, db, "missing", 10, userID, "x"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFinalizeScoreAtomic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")
	cat := testutil.CreateTestEntry(t, db, userID, "cat", "con mèo", time.Now())
	testID, err := CreateDeck(ctx, db, userID, "Animals", []string{cat})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	failHistory := errors.New("history insert failed")
	err = db.Callback().Create().Before("gorm:create").Register("test:fail_history", func(tx *gorm.DB) {
		if tx.Statement.Table == "flashcard_history" {
			_ = tx.AddError(failHistory)
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	err = FinalizeScore(ctx, db, testID, 100, userID, "Animals")
	if types.KindOf(err) != types.KindStorage || !errors.Is(err, failHistory) {
		t.Fatalf("Expected storage error wrapping the history failure, got %v", err)
	}

	deck, err := LoadDeck(ctx, db, userID, testID)
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if deck.Status != models.DeckNotStarted || deck.Score != 0 {
		t.Errorf("Expected deck untouched, got status %s score %v", deck.Status, deck.Score)
	}

	var count int64
	db.Model(&models.FlashcardAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no history rows, got %d", count)
	}
}

func TestAttemptHistoryNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, db, "lan")
	cat := testutil.CreateTestEntry(t, db, userID, "cat", "con mèo", time.Now())
	testID, _ := CreateDeck(ctx, db, userID, "Animals", []string{cat})

	restore := now
	defer func() { now = restore }()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for i, score := range []float64{20, 60, 90} {
		now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		if err := FinalizeScore(ctx, db, testID, score, userID, ""); err != nil {
			t.Fatalf("FinalizeScore failed: %v", err)
		}
	}

	records, err := AttemptHistory(ctx, db, userID)
	if err != nil {
		t.Fatalf("AttemptHistory failed: %v", err)
	}
	if len(records) != 3 || records[0].Score != 90 || records[2].Score != 20 {
		t.Errorf("Unexpected history %+v", records)
	}
	if records[0].DeckName != "Animals" {
		t.Errorf("Expected stored deck name, got %q", records[0].DeckName)
	}

	counts, err := CountDecksByStatus(ctx, db, userID)
	if err != nil {
		t.Fatalf("CountDecksByStatus failed: %v", err)
	}
	if counts[models.DeckDone] != 1 || counts[models.DeckNotStarted] != 0 {
		t.Errorf("Unexpected deck counts %v", counts)
	}
}

func TestEndToEndStudyScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userID, err := Register(ctx, db, "lan", "pwd", "lan@example.com", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	entry := EntryInput{Headword: "cat", Definition: "con mèo", WordClass: "noun"}
	catID, err := AddEntry(ctx, db, userID, entry)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := AddEntry(ctx, db, userID, entry); !errors.Is(err, types.ErrDuplicateEntry) {
		t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
	}

	testID, err := CreateDeck(ctx, db, userID, "Animals", []string{catID})
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	deck, err := LoadDeck(ctx, db, userID, testID)
	if err != nil {
		t.Fatalf("LoadDeck failed: %v", err)
	}
	if len(deck.Words) != 1 {
		t.Fatalf("Expected 1 word, got %d", len(deck.Words))
	}

	session, err := study.New(deck.Words).Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session, err = session.Answer(true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if session.State() != study.Completed {
		t.Fatalf("Expected completed, got %s", session.State())
	}

	if err := FinalizeScore(ctx, db, testID, session.Score(), userID, deck.Name); err != nil {
		t.Fatalf("FinalizeScore failed: %v", err)
	}

	deck, _ = LoadDeck(ctx, db, userID, testID)
	if deck.Status != models.DeckDone || deck.Score != 100.0 {
		t.Errorf("Expected done/100, got %s/%v", deck.Status, deck.Score)
	}
	history, _ := AttemptHistory(ctx, db, userID)
	if len(history) != 1 || history[0].Score != 100.0 || history[0].DeckName != "Animals" {
		t.Errorf("Unexpected history %+v", history)
	}
}
