package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/types"
	"gorm.io/gorm"
)

// ProgressReport aggregates everything the progress page shows
type ProgressReport struct {
	VocabularyStatus map[string]int64             `json:"vocabulary_status"`
	AddedPerDay      []DayCount                   `json:"added_per_day"`
	DeckStatus       map[string]int64             `json:"deck_status"`
	Attempts         []models.FlashcardAttempt    `json:"attempts"`
	Evaluation       models.TranslationEvaluation `json:"evaluation"`
}

// Progress builds the report for userID as of at.
func Progress(ctx context.Context, db *gorm.DB, userID string, at time.Time) (*ProgressReport, error) {
	vocab, err := CountByStatus(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	days, err := CountAddedPerDay(ctx, db, userID, 7, at)
	if err != nil {
		return nil, err
	}
	decks, err := CountDecksByStatus(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	attempts, err := AttemptHistory(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	eval, err := GetEvaluation(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	return &ProgressReport{
		VocabularyStatus: vocab,
		AddedPerDay:      days,
		DeckStatus:       decks,
		Attempts:         attempts,
		Evaluation:       *eval,
	}, nil
}

// RecordEvaluation folds one translation score into the user's running average.
func RecordEvaluation(ctx context.Context, db *gorm.DB, userID string, score float64) (*models.TranslationEvaluation, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, types.Validation("Score must be between 0 and 100.")
	}

	var eval models.TranslationEvaluation
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).Where("user_id = ?", userID).Take(&eval).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			eval = models.TranslationEvaluation{
				UserID:            userID,
				AverageScore:      score,
				TotalTranslations: 1,
				UpdatedAt:         now(),
			}
			return tx.Create(&eval).Error
		case err != nil:
			return err
		}

		total := eval.TotalTranslations + 1
		eval.AverageScore = (eval.AverageScore*float64(eval.TotalTranslations) + score) / float64(total)
		eval.TotalTranslations = total
		eval.UpdatedAt = now()

		return tx.Model(&models.TranslationEvaluation{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"average_score":      eval.AverageScore,
				"total_translations": eval.TotalTranslations,
				"updated_at":         eval.UpdatedAt,
			}).Error
	})
	if err := writeError(err, nil, "evaluations.record"); err != nil {
		return nil, err
	}

	return &eval, nil
}

// GetEvaluation returns the running average, or a zero value for a user with no evaluations.
func GetEvaluation(ctx context.Context, db *gorm.DB, userID string) (*models.TranslationEvaluation, error) {
	var eval models.TranslationEvaluation
	err := db.WithContext(ctx).Where("user_id = ?", userID).Take(&eval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.TranslationEvaluation{UserID: userID}, nil
	}
	if err != nil {
		return nil, types.Storage("evaluations.get", err)
	}
	return &eval, nil
}
