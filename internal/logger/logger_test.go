package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("login attempt",
		"password", "hunter2",
		"session_token", "abc",
		"email", "lan@example.com",
		"user_id", "0b6f2c1e-1b7a-4d8e-9a43-0c1d2e3f4a5b",
		"deck", "Animals",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()

	for _, key := range []string{"password", "session_token", "email"} {
		if fields[key] != "[REDACTED]" {
			t.Errorf("Expected %s to be redacted, got %v", key, fields[key])
		}
	}
	if uid, _ := fields["user_id"].(string); !strings.HasPrefix(uid, "hash:") {
		t.Errorf("Expected user_id to be hashed, got %v", fields["user_id"])
	}
	if fields["deck"] != "Animals" {
		t.Errorf("Expected deck to pass through, got %v", fields["deck"])
	}
}

func TestSanitizeRedactsJWTValues(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.signature"
	if got := sanitizeValue("detail", jwtLike); got != "[REDACTED]" {
		t.Errorf("Expected JWT-shaped value to be redacted, got %v", got)
	}
}

func TestSanitizeOddKeyValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"deck", "Animals", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Errorf("Unexpected sanitized output: %v", out)
	}
}
