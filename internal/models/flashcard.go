package models

import "time"

// Deck statuses
const (
	DeckNotStarted = "not_started"
	DeckDone       = "done"
)

// DeckWord is the snapshot of a vocabulary entry copied into a deck at creation.
// It is never refreshed from the vocabulary table.
type DeckWord struct {
	VocabID    string `json:"vocab_id"`
	Headword   string `json:"headword"`
	Definition string `json:"definition"`
}

// FlashcardDeck is a named, ordered set of word snapshots.
type FlashcardDeck struct {
	TestID      string             `gorm:"primaryKey;type:char(36)" json:"test_id"`
	UserID      string             `gorm:"type:char(36);not null;index:idx_flashcards_user_name,unique,priority:1" json:"user_id"`
	Name        string             `gorm:"size:191;not null;index:idx_flashcards_user_name,unique,priority:2" json:"name"`
	Status      string             `gorm:"size:16;not null;default:not_started" json:"status"`
	Score       float64            `gorm:"not null;default:0" json:"score"`
	DateCreated time.Time          `gorm:"not null" json:"date_created"`
	DateUpdated time.Time          `gorm:"not null;index" json:"date_updated"`
	Words       JSONList[DeckWord] `gorm:"not null" json:"words"`
	User        *User              `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for FlashcardDeck
func (FlashcardDeck) TableName() string {
	return "flashcards"
}

// DeckSummary is the listing projection of a deck, without its words.
type DeckSummary struct {
	TestID      string    `json:"test_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Score       float64   `json:"score"`
	DateCreated time.Time `json:"date_created"`
	DateUpdated time.Time `json:"date_updated"`
}

// FlashcardAttempt is one finalized study session. Rows are append-only.
type FlashcardAttempt struct {
	HistoryID string    `gorm:"primaryKey;type:char(36)" json:"history_id"`
	UserID    string    `gorm:"type:char(36);not null;index" json:"user_id"`
	DeckName  string    `gorm:"size:191;not null" json:"deck_name"`
	Score     float64   `gorm:"not null" json:"score"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	User      *User     `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for FlashcardAttempt
func (FlashcardAttempt) TableName() string {
	return "flashcard_history"
}
