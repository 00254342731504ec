package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// UUIDList stores a set of ids as a JSON array column
type UUIDList []uuid.UUID

// Value implements driver.Valuer interface for GORM to write JSONB
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *UUIDList) Scan(value any) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan UUIDList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = UUIDList{}
		return nil
	}
	return json.Unmarshal(bytes, (*[]uuid.UUID)(l))
}

// IDs returns a copy as a plain slice, never nil
func (l UUIDList) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(l))
	copy(ids, l)
	return ids
}
