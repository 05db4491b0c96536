package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a JSON-encoded list of strings stored in a single column.
// A NULL or empty column scans to an empty list, never nil.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// ProgressMap maps a topic name to a completion percentage (0-100),
// JSON-encoded in a single column. A NULL or empty column scans to {}.
type ProgressMap map[string]int

// Value implements the driver.Valuer interface
func (m ProgressMap) Value() (driver.Value, error) {
	if m == nil {
		m = ProgressMap{}
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *ProgressMap) Scan(value interface{}) error {
	if value == nil {
		*m = ProgressMap{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*m = ProgressMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// GormDBDataType ensures the correct data type is used for each database driver.
// This resolves the issue where MSSQL does not support the 'json' data type.
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (ProgressMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

func jsonColumnType(db *gorm.DB) string {
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

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column source type %T", value)
	}
}
