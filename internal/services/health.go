package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Cache        string            `json:"cache"`
	Translation  string            `json:"translation"`
	Dictionary   string            `json:"dictionary"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, detail string, err error) {
	r.Status = "unhealthy"
	r.Details[component+"_error"] = err.Error()
	msg := fmt.Sprintf("%s: %v", detail, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
}

// HealthCheck probes the database, the cache when configured, and the
// language endpoints. Only the database decides overall health; the
// external endpoints are reported as degraded.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient, log *logger.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Cache:   "disabled",
		Details: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "Database connection error", err)
		log.Error("Health check failed - database connection", "error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database", "Database ping failed", err)
		log.Error("Health check failed - database ping", "error", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			result.Cache = "unreachable"
			result.fail("cache", "Redis ping failed", err)
			log.Error("Health check failed - redis ping", "error", err)
		} else {
			result.Cache = "ok"
		}
	}

	result.Translation = probe(ctx, cfg.TranslationURL, "translation", &result, log)
	result.Dictionary = probe(ctx, cfg.DictionaryURL, "dictionary", &result, log)

	if result.Status == "healthy" {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}

func probe(ctx context.Context, url, name string, result *HealthCheckResult, log *logger.Logger) string {
	if url == "" {
		return "disabled"
	}
	if err := utils.PingEndpoint(ctx, url, 1500*time.Millisecond); err != nil {
		result.Details[name+"_error"] = err.Error()
		log.Warn("Health check degraded", "service", name, "error", err)
		return "unreachable"
	}
	return "ok"
}
