package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque identifier issued by the quiz service. Numeric records
// whether it arrived as a JSON number, so it is echoed back in the form the
// service used.
type ID struct {
	Value   string
	Numeric bool
}

func (id ID) String() string {
	return id.Value
}

// IsZero reports whether id is empty.
func (id ID) IsZero() bool {
	return id.Value == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.Numeric {
		return json.Marshal(json.Number(id.Value))
	}
	return json.Marshal(id.Value)
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*id = ID{}
	case string:
		*id = ID{Value: v}
	case json.Number:
		*id = ID{Value: v.String(), Numeric: true}
	default:
		return fmt.Errorf("id must be a string or number, got %s", raw)
	}
	return nil
}
