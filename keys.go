package lnurl

import (
	"strings"
	"unicode"
)

// KeyStyle selects how response keys are spelled on the wire.
type KeyStyle uint8

const (
	// CamelCase is the spelling used by the protocol, e.g. minSendable.
	CamelCase KeyStyle = iota

	// SnakeCase spells keys as min_sendable.
	SnakeCase
)

// camelKey turns a snake_case key into camelCase. Keys without an
// underscore are returned unchanged.
func camelKey(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}

	var (
		sb    strings.Builder
		upper bool
	)
	for _, r := range key {
		if r == '_' {
			upper = sb.Len() > 0
			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// snakeKey turns a camelCase key into snake_case.
func snakeKey(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// normalizeKeys returns a copy of data with every key, at any depth, in
// camelCase. When both spellings of a key are present the camelCase one
// wins.
func normalizeKeys(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))

	for k, v := range data {
		if !strings.Contains(k, "_") {
			out[k] = normalizeValue(v)
		}
	}

	for k, v := range data {
		if !strings.Contains(k, "_") {
			continue
		}

		camel := camelKey(k)
		if _, ok := out[camel]; !ok {
			out[camel] = normalizeValue(v)
		}
	}

	return out
}

func normalizeValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return normalizeKeys(v)

	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out

	default:
		return v
	}
}

// styleKeys rewrites the camelCase keys of data, at any depth, in style.
func styleKeys(data map[string]interface{}, style KeyStyle) map[string]interface{} {
	if style != SnakeCase {
		return data
	}

	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[snakeKey(k)] = styleValue(v, style)
	}

	return out
}

func styleValue(v interface{}, style KeyStyle) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return styleKeys(v, style)

	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = styleValue(e, style)
		}
		return out

	default:
		return v
	}
}
