package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Float64Slice stores a []float64 as a JSON column.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	data, err := scanBytes(value, "Float64Slice")
	if err != nil {
		return err
	}
	if data == nil {
		*f = nil
		return nil
	}
	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// StringSlice stores a []string as a JSON column.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(value any) error {
	data, err := scanBytes(value, "StringSlice")
	if err != nil {
		return err
	}
	if data == nil {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// JSONMap stores a map[string]any as a JSON column.
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	data, err := scanBytes(value, "JSONMap")
	if err != nil {
		return err
	}
	if data == nil {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func scanBytes(value any, typeName string) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot scan %T into %s", value, typeName)
	}
}
