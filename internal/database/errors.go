package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsDuplicateKey reports whether err is a unique constraint violation on any supported dialect.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// sqlite and sqlserver drivers only expose the message
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Cannot insert duplicate key")
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is valid on the dialect.
func SupportsRowLocks(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "sqlite", "sqlserver":
		return false
	}
	return true
}
