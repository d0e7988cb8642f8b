package database

import (
	"testing"

	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/models"
)

func TestDialectorUnsupported(t *testing.T) {
	if _, err := Dialector(&config.Config{DBType: "oracle"}); err == nil {
		t.Fatal("Expected error for unsupported database type")
	}
}

func TestDialectorNames(t *testing.T) {
	tests := map[string]string{
		"mysql":       "mysql",
		"mariadb":     "mysql",
		"postgres":    "postgres",
		"sqlite":      "sqlite",
		"sqlite-pure": "sqlite",
		"sqlserver":   "sqlserver",
	}
	for dbType, want := range tests {
		d, err := Dialector(&config.Config{DBType: dbType, DBDatabase: "lexideck"})
		if err != nil {
			t.Fatalf("Dialector(%s) failed: %v", dbType, err)
		}
		if d.Name() != want {
			t.Errorf("Dialector(%s).Name() = %s, want %s", dbType, d.Name(), want)
		}
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite-pure",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
	}

	db, err := Connect(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	if err := Migrate(cfg, db, logger.NewNop()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	for _, table := range []interface{}{
		&models.User{},
		&models.VocabularyEntry{},
		&models.FlashcardDeck{},
		&models.FlashcardAttempt{},
		&models.TranslationEvaluation{},
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table for %T", table)
		}
	}
	if !db.Migrator().HasIndex(&models.VocabularyEntry{}, "idx_vocabulary_identity") {
		t.Error("Expected unique vocabulary identity index")
	}
	if !db.Migrator().HasIndex(&models.FlashcardDeck{}, "idx_flashcards_user_name") {
		t.Error("Expected unique deck name index")
	}
}
