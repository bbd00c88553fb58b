package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Sides is the ordered list of side dishes chosen for a line item.
//
// It decodes from a JSON array or from the comma separated string the
// browser cart sends ("Rice, Beans"), and always encodes as an array.
type Sides []string

func ParseSides(s string) Sides {
	if strings.TrimSpace(s) == "" {
		return Sides{}
	}
	parts := strings.Split(s, ",")
	sides := make(Sides, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sides = append(sides, p)
		}
	}
	return sides
}

func (s Sides) String() string {
	return strings.Join(s, ", ")
}

func (s Sides) Equal(other Sides) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Sides) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (s *Sides) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null" || trimmed == "":
		*s = Sides{}
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*s = ParseSides(joined)
		return nil
	default:
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("sides must be a list of strings: %w", err)
		}
		*s = Sides(list)
		return nil
	}
}

// Value stores sides in a JSON column.
func (s Sides) Value() (driver.Value, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Sides) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Sides{}
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("scanning sides: unsupported type %T", src)
	}
}
