// Package jsonutil provides the JSON codec shared by the API client plus helpers
// for wrapping decode errors with context and digging values out of loose maps.
package jsonutil

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// codec is encoding/json compatible, including custom (Un)Marshalers.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes v.
func Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals JSON data into a slice.
// A JSON null decodes to an empty, non-nil slice.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []T{}
	}
	return entries, nil
}

// GetString safely extracts a string value from a map[string]any.
// Returns the value if it's a string, otherwise returns empty string.
func GetString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// FirstString returns the first non-empty string value among keys.
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := GetString(m, k); v != "" {
			return v
		}
	}
	return ""
}
