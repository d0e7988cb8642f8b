// Command inspect_schema prints the tables GORM creates for the models, to
// compare against the postgres migrations in data/migrations.
package main

import (
	"fmt"
	"log"

	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/logger"
)

func main() {
	cfg := &config.Config{
		DBType:            "sqlite-pure",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
	}

	db, err := database.Connect(cfg, logger.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// Get the schema
	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)

		var indexes []string
		db.Raw("SELECT sql FROM sqlite_master WHERE type='index' AND tbl_name = ? AND sql IS NOT NULL", table).Scan(&indexes)
		for _, idx := range indexes {
			fmt.Println(idx)
		}
	}
}
