package services

import (
	"errors"
	"strings"
	"time"

	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// now is the clock for every timestamp the stores write. Tests replace it.
var now = func() time.Time {
	return time.Now().UTC()
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect has row locks
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if database.SupportsRowLocks(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// normalizeText trims and NFC-normalizes user text so that composed and
// decomposed diacritics compare equal.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// cleanList normalizes values and drops blanks, keeping order and duplicates.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = normalizeText(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// uniqueList normalizes values and drops blanks and duplicates, keeping first-seen order.
func uniqueList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range cleanList(values) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// writeError maps an error returned from a mutation to the error taxonomy.
// CustomErrors pass through, unique violations become duplicate, and
// everything else is a storage failure.
func writeError(err error, duplicate *types.CustomError, op string) error {
	if err == nil {
		return nil
	}
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return err
	}
	if duplicate != nil && database.IsDuplicateKey(err) {
		return duplicate.Wrap(err)
	}
	return types.Storage(op, err)
}

// readError maps a lookup failure to not-found or storage.
func readError(err error, resource, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(resource)
	}
	return types.Storage(op, err)
}
