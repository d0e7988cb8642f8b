package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringSet is a set of strings kept in first-seen order and stored as "a, b, c".
type StringSet []string

// NewStringSet trims values and drops blanks and duplicates.
func NewStringSet(values ...string) StringSet {
	seen := make(map[string]struct{}, len(values))
	out := StringSet{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s StringSet) Value() (driver.Value, error) {
	return strings.Join(s, ", "), nil
}

func (s *StringSet) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("StringSet: unsupported column type %T", value)
	}
	*s = NewStringSet(strings.Split(raw, ",")...)
	return nil
}

// GormDBDataType stores the set as unbounded text on every dialect.
func (StringSet) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	}
	return "TEXT"
}
