// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"encoding/json"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// htmlTag matches anything that looks like a markup tag.
var htmlTag = regexp.MustCompile(`<[^>]*>`)

// field looks up the first of names present in m. Exact matches win over
// case-insensitive ones so "Items" and "items" both resolve.
func field(m map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := m[name]; ok && v != nil {
			return v, true
		}
	}
	for _, name := range names {
		for k, v := range m {
			if v != nil && strings.EqualFold(k, name) {
				return v, true
			}
		}
	}
	return nil, false
}

// cleanText strips markup, decodes entities and collapses whitespace.
func cleanText(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return ""
	}
	s = htmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// toFloat accepts numbers and numeric strings, returning fallback otherwise.
func toFloat(v any, fallback float64) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// toInt parses integers exactly where possible and otherwise truncates
// toFloat's result toward zero.
func toInt(v any, fallback int64) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n
		}
	}
	f := toFloat(v, math.NaN())
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return fallback
	}
	return int64(f)
}

// toBool accepts booleans, numbers (0 = false) and a small set of tokens.
func toBool(v any, fallback bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64, float32, int, int64, json.Number:
		f := toFloat(t, math.NaN())
		if math.IsNaN(f) {
			return fallback
		}
		return f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "y":
			return true
		case "false", "0", "no", "n":
			return false
		}
	}
	return fallback
}

// toAnswerType maps loose answer type spellings onto the two known values.
// Backends that serialize the enum by ordinal send 0 for Single and 1 for
// Multiple, so "1" is the one numeric spelling that means Multiple.
func toAnswerType(v any) string {
	switch strings.ToLower(cleanText(v)) {
	case "multiple", "multi", "many", "1":
		return "Multiple"
	default:
		return "Single"
	}
}
