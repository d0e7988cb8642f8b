package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/testutil"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userID, err := Register(ctx, db, "lan", "pwd", "Lan@Example.com", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if userID == "" {
		t.Fatal("Expected a user id")
	}

	var user models.User
	if err := db.Where("user_id = ?", userID).Take(&user).Error; err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if user.PasswordHash == "pwd" || !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Error("Expected a bcrypt hash to be stored")
	}
	if user.Email != "lan@example.com" {
		t.Errorf("Expected lowercased email, got %s", user.Email)
	}

	got, err := Authenticate(ctx, db, "lan", "pwd")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got != userID {
		t.Errorf("Expected %s, got %s", userID, got)
	}

	if _, err := Authenticate(ctx, db, "lan", "wrong"); !errors.Is(err, types.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := Authenticate(ctx, db, "mai", "pwd"); !errors.Is(err, types.ErrUnknownUsername) {
		t.Errorf("Expected ErrUnknownUsername, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	if _, err := Register(ctx, db, "lan", "pwd", "lan@example.com", bcrypt.MinCost); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// username is checked before email, whatever the email is
	for _, email := range []string{"lan@example.com", "other@example.com"} {
		_, err := Register(ctx, db, "lan", "pwd2", email, bcrypt.MinCost)
		if !errors.Is(err, types.ErrDuplicateUsername) {
			t.Errorf("email %s: expected ErrDuplicateUsername, got %v", email, err)
		}
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	if _, err := Register(ctx, db, "lan", "pwd", "lan@example.com", bcrypt.MinCost); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, err := Register(ctx, db, "mai", "pwd", "LAN@example.com", bcrypt.MinCost)
	if !errors.Is(err, types.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name, username, password, email string
	}{
		{"blank username", " ", "pwd", "a@example.com"},
		{"blank password", "lan", "", "a@example.com"},
		{"blank email", "lan", "pwd", ""},
		{"bad email", "lan", "pwd", "not-an-email"},
		{"long password", "lan", strings.Repeat("x", 73), "a@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Register(ctx, db, tt.username, tt.password, tt.email, bcrypt.MinCost)
			if types.KindOf(err) != types.KindValidation {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userID, err := Register(ctx, db, "lan", "pwd", "lan@example.com", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.Username != "lan" || user.CreatedAt.IsZero() {
		t.Errorf("Unexpected user %+v", user)
	}

	if _, err := GetUser(ctx, db, "missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cfg := testutil.Config()

	token, expires, err := IssueSession(cfg, "user-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Error("Expected expiry in the future")
	}

	userID, err := ValidateSession(cfg, token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected user-1, got %s", userID)
	}
}

func TestSessionRejected(t *testing.T) {
	cfg := testutil.Config()
	token, _, _ := IssueSession(cfg, "user-1")

	other := testutil.Config()
	other.SessionSecret = "another-secret"
	if _, err := ValidateSession(other, token); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for wrong secret, got %v", err)
	}

	if _, err := ValidateSession(cfg, ""); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for empty token, got %v", err)
	}

	expired := testutil.Config()
	expired.SessionTTL = -time.Minute
	stale, _, _ := IssueSession(expired, "user-1")
	_, err := ValidateSession(cfg, stale)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized for expired token, got %v", err)
	}
	if !strings.Contains(types.AsCustomError(err).Message, "expired") {
		t.Errorf("Expected expiry message, got %q", types.AsCustomError(err).Message)
	}
}
