// main.go
//
// An English to Vietnamese vocabulary and flashcard service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lexideck.
// lexideck is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lexideck is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lexideck.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/handlers"
	"github.com/localnerve/lexideck/internal/lexicon"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/middleware"
	"github.com/localnerve/lexideck/internal/observability"
	"github.com/localnerve/lexideck/internal/scoring"
	"github.com/localnerve/lexideck/internal/translation"

	_ "github.com/localnerve/lexideck/docs/api" // Swagger docs
)

const version = "1.0.0"

// @title Lexideck API
// @version 1.0.0
// @description English to Vietnamese translation, vocabulary and flashcard service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/lexideck
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name lexideck_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: "lexideck",
		Version:     version,
	})

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	if err := database.Migrate(cfg, db, log); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	// Optional shared translation cache
	rdb, err := database.ConnectRedis(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to redis", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	translator, err := translation.New(cfg, rdb, log)
	if err != nil {
		log.Fatal("Failed to create translator", "error", err)
	}

	var metric scoring.Metric = scoring.TokenOverlap{}
	if cfg.ScoringURL != "" {
		metric = scoring.NewHTTPMetric(cfg.ScoringURL, cfg.ExternalTimeout)
	}
	log.Info("Translation scoring", "remote", cfg.ScoringURL != "")

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		AppName:      "lexideck " + version,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// Prometheus metrics
	prometheus := fiberprometheus.New("lexideck")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.RequestContext())

	handlers.Mount(api, cfg, handlers.Set{
		Auth:       &handlers.AuthHandler{DB: db, Cfg: cfg, Log: log},
		Vocabulary: &handlers.VocabularyHandler{DB: db, Log: log},
		Flashcards: &handlers.FlashcardHandler{DB: db, Log: log},
		Study:      &handlers.StudyHandler{DB: db, Log: log},
		Language: &handlers.LanguageHandler{
			DB:         db,
			Log:        log,
			Translator: translator,
			Dictionary: lexicon.New(cfg.DictionaryURL, cfg.ExternalTimeout, translator),
			Evaluator:  &scoring.Evaluator{Translator: translator, Metric: metric},
		},
		Progress: &handlers.ProgressHandler{DB: db, Log: log},
		Health:   &handlers.HealthHandler{DB: db, Cfg: cfg, Redis: rdb, Log: log},
	})

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed", "error", err)
		}
	}()

	// Start server
	log.Info("Starting server", "port", cfg.Port, "version", version)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Tracing shutdown failed", "error", err)
	}

	log.Info("Server stopped")
}
