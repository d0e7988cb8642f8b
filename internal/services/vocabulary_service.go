package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// EntryInput is the payload for a new vocabulary entry.
// Examples and synonyms accept a single string or a list.
type EntryInput struct {
	Headword   string                 `json:"headword"`
	Definition string                 `json:"definition"`
	WordClass  string                 `json:"word_class"`
	Examples   types.FlexList[string] `json:"examples,omitempty"`
	Synonyms   types.FlexList[string] `json:"synonyms,omitempty"`
}

// DayCount is the number of entries added on one UTC calendar day
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type statusTotal struct {
	Status string
	Total  int64
}

// AddEntry stores a new entry with status studying and returns its id.
func AddEntry(ctx context.Context, db *gorm.DB, userID string, in EntryInput) (string, error) {
	headword := normalizeText(in.Headword)
	definition := normalizeText(in.Definition)
	wordClass := strings.ToLower(strings.TrimSpace(in.WordClass))

	if headword == "" || definition == "" {
		return "", types.Validation("Headword and definition are required.")
	}
	if !models.IsWordClass(wordClass) {
		return "", types.Validation("Unknown word class %q.", in.WordClass)
	}

	entry := models.VocabularyEntry{
		VocabID:    uuid.NewString(),
		UserID:     userID,
		Headword:   headword,
		Definition: definition,
		WordClass:  wordClass,
		Examples:   models.JSONList[string](cleanList(in.Examples.Slice())),
		Synonyms:   models.NewStringSet(uniqueList(in.Synonyms.Slice())...),
		Status:     models.StatusStudying,
		DateAdded:  now(),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VocabularyEntry{}).
			Where("user_id = ? AND headword = ? AND definition = ?", userID, headword, definition).
			Count(&count).Error; err != nil {
			return types.Storage("vocabulary.add.check", err)
		}
		if count > 0 {
			return types.ErrDuplicateEntry
		}
		return tx.Create(&entry).Error
	})
	if err := writeError(err, types.ErrDuplicateEntry, "vocabulary.add"); err != nil {
		return "", err
	}

	return entry.VocabID, nil
}

// ListEntries returns every entry of the user in insertion order.
func ListEntries(ctx context.Context, db *gorm.DB, userID string) ([]models.VocabularyEntry, error) {
	entries := []models.VocabularyEntry{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "vocabulary.list")).
		Where("user_id = ?", userID).
		Order("date_added ASC").Order("vocab_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, types.Storage("vocabulary.list", err)
	}
	return entries, nil
}

// ToggleStatus flips studying and remembered and returns the new status.
func ToggleStatus(ctx context.Context, db *gorm.DB, userID, vocabID string) (string, error) {
	var next string

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.VocabularyEntry
		if err := lockForUpdate(tx).
			Select("vocab_id", "status").
			Where("vocab_id = ? AND user_id = ?", vocabID, userID).
			Take(&entry).Error; err != nil {
			return readError(err, "Vocabulary entry", "vocabulary.toggle.read")
		}

		next = models.StatusRemembered
		if entry.Status == models.StatusRemembered {
			next = models.StatusStudying
		}

		return tx.Model(&models.VocabularyEntry{}).
			Where("vocab_id = ?", vocabID).
			Update("status", next).Error
	})
	if err := writeError(err, nil, "vocabulary.toggle"); err != nil {
		return "", err
	}

	return next, nil
}

// DeleteEntry removes an entry. Decks that already hold a snapshot of it are untouched.
func DeleteEntry(ctx context.Context, db *gorm.DB, userID, vocabID string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("vocab_id = ? AND user_id = ?", vocabID, userID).Delete(&models.VocabularyEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.NotFound("Vocabulary entry")
		}
		return nil
	})
	return writeError(err, nil, "vocabulary.delete")
}

// CountByStatus counts the user's entries per status. Both statuses are always present.
func CountByStatus(ctx context.Context, db *gorm.DB, userID string) (map[string]int64, error) {
	var rows []statusTotal
	err := db.WithContext(ctx).
		Model(&models.VocabularyEntry{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, types.Storage("vocabulary.count.status", err)
	}

	counts := map[string]int64{
		models.StatusStudying:   0,
		models.StatusRemembered: 0,
	}
	for _, row := range rows {
		counts[row.Status] += row.Total
	}
	return counts, nil
}

// CountAddedPerDay returns one bucket per UTC day for the last `days` days
// ending on the day of at, oldest first, zero-filled. days <= 0 means 7.
func CountAddedPerDay(ctx context.Context, db *gorm.DB, userID string, days int, at time.Time) ([]DayCount, error) {
	if days <= 0 {
		days = 7
	}

	today := startOfDay(at)
	start := today.AddDate(0, 0, -(days - 1))
	end := today.AddDate(0, 0, 1)

	var stamps []time.Time
	err := db.WithContext(ctx).
		Model(&models.VocabularyEntry{}).
		Where("user_id = ? AND date_added >= ? AND date_added < ?", userID, start, end).
		Pluck("date_added", &stamps).Error
	if err != nil {
		return nil, types.Storage("vocabulary.count.days", err)
	}

	buckets := make([]DayCount, days)
	for i := range buckets {
		buckets[i].Date = start.AddDate(0, 0, i).Format(time.DateOnly)
	}
	for _, ts := range stamps {
		idx := int(startOfDay(ts).Sub(start).Hours() / 24)
		if idx >= 0 && idx < days {
			buckets[idx].Count++
		}
	}

	return buckets, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
