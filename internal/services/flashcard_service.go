package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// CreateDeck snapshots the selected entries into a new deck and returns its id.
// The snapshot keeps the caller's order with repeated ids removed.
func CreateDeck(ctx context.Context, db *gorm.DB, userID, name string, vocabIDs []string) (string, error) {
	name = normalizeText(name)
	if name == "" {
		return "", types.Validation("Deck name is required.")
	}

	ids := uniqueList(vocabIDs)
	if len(ids) == 0 {
		return "", types.ErrEmptySelection
	}

	ts := now()
	deck := models.FlashcardDeck{
		TestID:      uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Status:      models.DeckNotStarted,
		Score:       0,
		DateCreated: ts,
		DateUpdated: ts,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FlashcardDeck{}).
			Where("user_id = ? AND name = ?", userID, name).
			Count(&count).Error; err != nil {
			return types.Storage("flashcards.create.check", err)
		}
		if count > 0 {
			return types.ErrDuplicateName
		}

		var entries []models.VocabularyEntry
		if err := tx.Select("vocab_id", "headword", "definition").
			Where("user_id = ? AND vocab_id IN ?", userID, ids).
			Find(&entries).Error; err != nil {
			return types.Storage("flashcards.create.words", err)
		}

		byID := make(map[string]models.VocabularyEntry, len(entries))
		for _, e := range entries {
			byID[e.VocabID] = e
		}

		words := make(models.JSONList[models.DeckWord], 0, len(ids))
		for _, id := range ids {
			e, ok := byID[id]
			if !ok {
				return types.NotFound("Vocabulary entry")
			}
			words = append(words, models.DeckWord{
				VocabID:    e.VocabID,
				Headword:   e.Headword,
				Definition: e.Definition,
			})
		}
		deck.Words = words

		return tx.Create(&deck).Error
	})
	if err := writeError(err, types.ErrDuplicateName, "flashcards.create"); err != nil {
		return "", err
	}

	return deck.TestID, nil
}

// ListDecks returns deck summaries, most recently updated first
func ListDecks(ctx context.Context, db *gorm.DB, userID string) ([]models.DeckSummary, error) {
	decks := []models.DeckSummary{}
	err := db.WithContext(ctx).
		Model(&models.FlashcardDeck{}).
		Clauses(hints.Comment("select", "flashcards.list")).
		Select("test_id", "name", "status", "score", "date_created", "date_updated").
		Where("user_id = ?", userID).
		Order("date_updated DESC").Order("test_id ASC").
		Scan(&decks).Error
	if err != nil {
		return nil, types.Storage("flashcards.list", err)
	}
	return decks, nil
}

// LoadDeck returns a deck with its word snapshots.
func LoadDeck(ctx context.Context, db *gorm.DB, userID, testID string) (*models.FlashcardDeck, error) {
	var deck models.FlashcardDeck
	err := db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testID, userID).
		Take(&deck).Error
	if err != nil {
		return nil, readError(err, "Flashcard deck", "flashcards.load")
	}
	return &deck, nil
}

// DeleteDeck removes a deck. Its attempt history is kept.
func DeleteDeck(ctx context.Context, db *gorm.DB, userID, testID string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("test_id = ? AND user_id = ?", testID, userID).Delete(&models.FlashcardDeck{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.NotFound("Flashcard deck")
		}
		return nil
	})
	return writeError(err, nil, "flashcards.delete")
}

// FinalizeScore marks a deck done with score and appends one attempt record.
// Both writes commit together or not at all. A blank deckName records the deck's stored name.
func FinalizeScore(ctx context.Context, db *gorm.DB, testID string, score float64, userID, deckName string) error {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return types.Validation("Score must be between 0 and 100.")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deck models.FlashcardDeck
		if err := lockForUpdate(tx).
			Select("test_id", "name").
			Where("test_id = ? AND user_id = ?", testID, userID).
			Take(&deck).Error; err != nil {
			return readError(err, "Flashcard deck", "flashcards.finalize.read")
		}

		ts := now()
		if err := tx.Model(&models.FlashcardDeck{}).
			Where("test_id = ?", testID).
			Updates(map[string]interface{}{
				"status":       models.DeckDone,
				"score":        score,
				"date_updated": ts,
			}).Error; err != nil {
			return err
		}

		name := normalizeText(deckName)
		if name == "" {
			name = deck.Name
		}
		return tx.Create(&models.FlashcardAttempt{
			HistoryID: uuid.NewString(),
			UserID:    userID,
			DeckName:  name,
			Score:     score,
			Timestamp: ts,
		}).Error
	})
	return writeError(err, nil, "flashcards.finalize")
}

// AttemptHistory returns the user's attempts, newest first.
func AttemptHistory(ctx context.Context, db *gorm.DB, userID string) ([]models.FlashcardAttempt, error) {
	records := []models.FlashcardAttempt{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "flashcards.history")).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order("history_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, types.Storage("flashcards.history", err)
	}
	return records, nil
}

// CountDecksByStatus counts decks per status, zero-filled.
func CountDecksByStatus(ctx context.Context, db *gorm.DB, userID string) (map[string]int64, error) {
	var rows []statusTotal
	err := db.WithContext(ctx).
		Model(&models.FlashcardDeck{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, types.Storage("flashcards.count.status", err)
	}

	counts := map[string]int64{
		models.DeckNotStarted: 0,
		models.DeckDone:       0,
	}
	for _, row := range rows {
		counts[row.Status] += row.Total
	}
	return counts, nil
}
