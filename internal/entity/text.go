package entity

import (
	"encoding/json"
	"strings"
)

// Text is an optional string field. A field that could not be located on a
// page is absent, which is distinct from any string value.
type Text struct {
	value string
	ok    bool
}

// Some returns a present Text. Blank input is treated as absent.
func Some(s string) Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return Text{}
	}
	return Text{value: s, ok: true}
}

// None returns an absent Text.
func None() Text { return Text{} }

func (t Text) Get() (string, bool) { return t.value, t.ok }

func (t Text) Present() bool { return t.ok }

// Value returns the string, or "" when absent.
func (t Text) Value() string { return t.value }

// Or returns the value when present and fallback otherwise.
func (t Text) Or(fallback string) string {
	if !t.ok {
		return fallback
	}
	return t.value
}

// Display renders the value, substituting the field's sentinel when absent.
func (t Text) Display(f Field) string {
	return t.Or(Sentinel(f))
}

// Less orders present values lexically and absent values last.
func (t Text) Less(o Text) bool {
	if t.ok != o.ok {
		return t.ok
	}
	return t.value < o.value
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.ok {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*t = None()
		return nil
	}
	*t = Some(*s)
	return nil
}
