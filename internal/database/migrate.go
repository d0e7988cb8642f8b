package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/localnerve/lexideck/data"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
)

// MigratePostgres applies the embedded postgres migrations over a dedicated
// lib/pq connection that is closed when done.
func MigratePostgres(cfg *config.Config, log *logger.Logger) error {
	sqlDB, err := sql.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(data.Migrations, data.PostgresMigrationsDir)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	// closes the source and sqlDB
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("Database migrated", "version", version, "dirty", dirty)

	return nil
}
