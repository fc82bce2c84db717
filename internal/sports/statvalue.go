package sports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StatValue is a leader value: either a number or a string preformatted
// upstream (".331", "2.45"). Strings are kept verbatim.
type StatValue struct {
	Num    float64
	Text   string
	IsText bool
}

// Number returns a numeric StatValue.
func Number(v float64) StatValue { return StatValue{Num: v} }

// Text returns a preformatted StatValue.
func Text(s string) StatValue { return StatValue{Text: s, IsText: true} }

func (v StatValue) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// MarshalJSON writes the value as a JSON number or string.
func (v StatValue) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON accepts a JSON number, string or null.
func (v *StatValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = StatValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding stat value: %w", err)
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding stat value: %w", err)
	}
	*v = Number(f)
	return nil
}
