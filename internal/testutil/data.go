// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/models"
	"gorm.io/gorm"
)

// Config returns a configuration for an in-memory pure-Go sqlite database.
func Config() *config.Config {
	return &config.Config{
		Port:                 "0",
		DBType:               "sqlite-pure",
		DBDatabase:           ":memory:",
		DBConnectionLimit:    1,
		DBLogLevel:           "silent",
		SessionSecret:        "test-session-secret",
		SessionTTL:           time.Hour,
		BcryptCost:           4,
		TranslationCacheSize: 64,
		TranslationCacheTTL:  time.Minute,
		ExternalTimeout:      2 * time.Second,
	}
}

// SetupTestDB opens a migrated in-memory database that is closed with the test.
// A single connection keeps every statement on the same memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := Config()

	db, err := database.Connect(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := database.Migrate(cfg, db, logger.NewNop()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}

// CreateTestUser inserts a user row directly and returns its id
func CreateTestUser(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	user := models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.UserID
}

// CreateTestEntry inserts a vocabulary entry directly and returns its id
func CreateTestEntry(t *testing.T, db *gorm.DB, userID, headword, definition string, added time.Time) string {
	t.Helper()
	entry := models.VocabularyEntry{
		VocabID:    uuid.NewString(),
		UserID:     userID,
		Headword:   headword,
		Definition: definition,
		WordClass:  models.WordClassNoun,
		Status:     models.StatusStudying,
		DateAdded:  added.UTC(),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to create vocabulary entry: %v", err)
	}
	return entry.VocabID
}
