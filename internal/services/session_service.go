package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "lexideck_session"

const sessionIssuer = "lexideck"

// SessionClaims are the JWT claims of a login session. Subject is the user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSession signs a session token for userID.
func IssueSession(cfg *config.Config, userID string) (string, time.Time, error) {
	tokenID, err := gonanoid.New()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token id: %w", err)
	}

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(cfg.SessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    sessionIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateSession checks a session token and returns the user id it was issued to.
func ValidateSession(cfg *config.Config, token string) (string, error) {
	if token == "" {
		return "", types.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.SessionSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", types.ErrUnauthorized.WithMessage("Your session has expired. Please log in again.").Wrap(err)
		}
		return "", types.ErrUnauthorized.Wrap(err)
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", types.ErrUnauthorized
	}
	return claims.Subject, nil
}
