package models

import (
	"time"
)

// Vocabulary statuses
const (
	StatusStudying   = "studying"
	StatusRemembered = "remembered"
)

// Word classes accepted for a vocabulary entry
const (
	WordClassNoun           = "noun"
	WordClassVerb           = "verb"
	WordClassAdjective      = "adjective"
	WordClassAdverb         = "adverb"
	WordClassShortAdjective = "short_adjective"
)

// WordClasses lists every accepted word class.
var WordClasses = []string{
	WordClassNoun,
	WordClassVerb,
	WordClassAdjective,
	WordClassAdverb,
	WordClassShortAdjective,
}

// IsWordClass reports whether s is an accepted word class
func IsWordClass(s string) bool {
	for _, wc := range WordClasses {
		if wc == s {
			return true
		}
	}
	return false
}

// VocabularyEntry is one word the user keeps in their dictionary.
// (user_id, headword, definition) is unique.
type VocabularyEntry struct {
	VocabID    string           `gorm:"primaryKey;type:char(36)" json:"vocab_id"`
	UserID     string           `gorm:"type:char(36);not null;index:idx_vocabulary_identity,unique,priority:1" json:"user_id"`
	Headword   string           `gorm:"size:191;not null;index:idx_vocabulary_identity,unique,priority:2" json:"headword"`
	Definition string           `gorm:"size:512;not null;index:idx_vocabulary_identity,unique,priority:3" json:"definition"`
	WordClass  string           `gorm:"size:32;not null" json:"word_class"`
	Examples   JSONList[string] `gorm:"not null" json:"examples"`
	Synonyms   StringSet        `gorm:"not null" json:"synonyms"`
	Status     string           `gorm:"size:16;not null;default:studying" json:"status"`
	DateAdded  time.Time        `gorm:"not null;index" json:"date_added"`
	User       *User            `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for VocabularyEntry
func (VocabularyEntry) TableName() string {
	return "vocabulary"
}
