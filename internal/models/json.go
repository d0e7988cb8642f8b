package models

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONList stores an ordered slice as a serialized JSON array column.
type JSONList[T any] []T

// Value serializes the list; a nil list is stored as an empty array.
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the column through datatypes.JSON so []byte and string drivers behave the same.
func (l *JSONList[T]) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList[T]{}
		return nil
	}
	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return err
	}
	if len(raw) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*l = JSONList[T](items)
	return nil
}

// GormDBDataType ensures the correct data type is used for each database driver.
// MSSQL has no json type.
func (JSONList[T]) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
