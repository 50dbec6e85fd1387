// Package jsonutil holds small JSON helpers for values stored as text
// columns.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals data into v and wraps any error with
// context.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// EncodeStrings renders ids as a JSON array. A nil slice encodes as "[]".
func EncodeStrings(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeStrings parses a JSON array of strings. Empty input yields nil.
func DecodeStrings(s, context string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := UnmarshalWithContext([]byte(s), &out, context); err != nil {
		return nil, err
	}
	return out, nil
}
