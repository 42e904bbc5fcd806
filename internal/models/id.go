package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies courses, modules and lessons. The backend sends numeric ids
// for some resources and strings for others, so both decode into the same
// string form and compare the way String(id) would.
type ID string

// IsZero reports whether the id is absent
func (id ID) IsZero() bool {
	return id == ""
}

// String implements fmt.Stringer
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts "abc", 42, 4.2e1 and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}

	// integers keep their literal form, floats that are whole numbers are
	// printed without the fraction so 3 and 3.0 land on the same key
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
