package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Genres is an ordered list of genre names stored as a JSON array in a TEXT column.
// It implements driver.Valuer and sql.Scanner so it round-trips through both GORM
// and plain database/sql queries.
type Genres []string

// GormDataType tells GORM which column type to migrate.
func (Genres) GormDataType() string {
	return "text"
}

func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (g *Genres) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("genres: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("genres: invalid JSON %q: %w", string(raw), err)
	}
	*g = out
	return nil
}
