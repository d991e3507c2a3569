// Package roster converts team documents into a canonical roster and keeps it consistent.
//
// Everything here is total over parsed JSON: unexpected shapes are coerced to
// documented fallbacks instead of being rejected. Only Parse can fail, and only
// when the input is not JSON at all.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Parse decodes a raw document. Numbers are kept as json.Number so numeric
// identifiers keep their original text.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing roster document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing roster document: trailing data after top-level value")
	}
	return raw, nil
}

// AsString returns v as a string. json.Number values keep their literal text;
// anything else yields fallback.
func AsString(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fallback
	}
}

// AsSlice returns v as a slice, or an empty slice for any other shape.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{}
}

// AsObject returns v as an object, or an empty object for any other shape.
func AsObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// AsBool is true only for a JSON true.
func AsBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// stringsOnly keeps the elements of v that are strings, in order.
func stringsOnly(v any) []string {
	out := []string{}
	for _, item := range AsSlice(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
