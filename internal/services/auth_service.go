package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/models"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Register creates an account and returns its id.
// Username is checked before email; the first conflict wins.
func Register(ctx context.Context, db *gorm.DB, username, password, email string, cost int) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || password == "" || email == "" {
		return "", types.Validation("Username, password and email are required.")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", types.Validation("Email address is not valid.")
	}

	user := models.User{
		UserID:   uuid.NewString(),
		Username: username,
		Email:    email,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := credentialsAvailable(tx, username, email); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return types.Validation("Password must be at most 72 bytes.")
			}
			return types.Storage("auth.hash", err)
		}
		user.PasswordHash = string(hash)
		user.CreatedAt = now()

		return tx.Create(&user).Error
	})

	if err != nil && database.IsDuplicateKey(err) {
		// Lost the race between the check and the insert. The failed
		// transaction is gone, so re-check on a fresh one to name the conflict.
		if cerr := credentialsAvailable(db.WithContext(ctx), username, email); cerr != nil {
			return "", cerr
		}
	}
	if err := writeError(err, types.ErrDuplicateUsername, "auth.register"); err != nil {
		return "", err
	}

	return user.UserID, nil
}

// credentialsAvailable fails with the duplicate error for the first taken credential
func credentialsAvailable(tx *gorm.DB, username, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return types.Storage("auth.check.username", err)
	}
	if count > 0 {
		return types.ErrDuplicateUsername
	}

	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return types.Storage("auth.check.email", err)
	}
	if count > 0 {
		return types.ErrDuplicateEmail
	}

	return nil
}

// Authenticate verifies a username and password and returns the user id.
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", types.Validation("Username and password are required.")
	}

	var user models.User
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "auth.authenticate")).
		Where("username = ?", username).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.ErrUnknownUsername
		}
		return "", types.Storage("auth.authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", types.ErrInvalidCredentials
	}

	return user.UserID, nil
}

// GetUser loads the account for the account page
func GetUser(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error
	if err != nil {
		return nil, readError(err, "User", "auth.get")
	}
	return &user, nil
}
