// internal/models/nullable.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Text is an optional scalar column. It accepts JSON strings, numbers and
// booleans (kept as their literal text) and treats null, objects and arrays
// as absent. It never fails to decode.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present Text.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Text{}
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = NewText(s)
	case '{', '[':
	default:
		*t = NewText(string(data))
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.Value)
}

func (t Text) String() string {
	return t.Value
}

// Blank reports whether the column is absent or whitespace only.
func (t Text) Blank() bool {
	return !t.Valid || strings.TrimSpace(t.Value) == ""
}

// Or returns the value, or fallback when the column is blank.
func (t Text) Or(fallback string) string {
	if t.Blank() {
		return fallback
	}
	return t.Value
}

// Is compares the value exactly. An absent column never matches.
func (t Text) Is(s string) bool {
	return t.Valid && t.Value == s
}

// IsFold compares the value ignoring case. An absent column never matches.
func (t Text) IsFold(s string) bool {
	return t.Valid && strings.EqualFold(t.Value, s)
}

// Number is an optional numeric column. Numeric strings are accepted;
// anything unparseable decodes as absent.
type Number struct {
	Value float64
	Valid bool
}

func NewNumber(f float64) Number {
	return Number{Value: f, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		*n = NewNumber(f)
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// String renders the shortest exact decimal form, "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Or returns String(), or fallback when absent.
func (n Number) Or(fallback string) string {
	if !n.Valid {
		return fallback
	}
	return n.String()
}

// Equals reports whether the column is present and equal to v.
func (n Number) Equals(v float64) bool {
	return n.Valid && n.Value == v
}

// Int returns the value as an integer. ok is false when absent, fractional or
// outside the int64 range.
func (n Number) Int() (int64, bool) {
	if !n.Valid || math.Trunc(n.Value) != n.Value || n.Value < math.MinInt64 || n.Value >= math.MaxInt64 {
		return 0, false
	}
	return int64(n.Value), true
}
