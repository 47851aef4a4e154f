package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// JSON maps a jsonb column to raw bytes without forcing a schema on it.
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return nil
}

func (JSON) GormDataType() string {
	return "jsonb"
}

var errInvalidJSON = errors.New("invalid json payload")

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errInvalidJSON
	}
	*j = append((*j)[:0], data...)
	return nil
}
