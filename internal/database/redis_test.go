package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
)

func TestConnectRedisDisabled(t *testing.T) {
	client, err := ConnectRedis(context.Background(), &config.Config{}, logger.NewNop())
	if err != nil || client != nil {
		t.Errorf("Expected nil client without REDIS_ADDR, got %v, %v", client, err)
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), &config.Config{RedisAddr: mr.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("ConnectRedis failed: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Set failed: %v", err)
	}
}

func TestConnectRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := ConnectRedis(context.Background(), &config.Config{RedisAddr: addr}, logger.NewNop()); err == nil {
		t.Error("Expected an error for an unreachable redis")
	}
}
