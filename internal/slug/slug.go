// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives stable business keys from human-readable labels.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxKeyLen caps the length of a derived key.
	MaxKeyLen = 80

	// Placeholder is returned when a label has no usable characters.
	Placeholder = "unnamed"
)

// nonAlphanumeric matches runs of anything that isn't a lowercase letter or digit.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Fold strips diacritics: "Éthique" → "Ethique".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key creates an underscore-separated key from the given label.
// Example: "Recycled Packaging (≥ 50%)" → "recycled_packaging_50"
func Key(s string) string {
	result := strings.ToLower(Fold(strings.TrimSpace(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "_")
	result = strings.Trim(result, "_")
	if len(result) > MaxKeyLen {
		result = strings.TrimRight(result[:MaxKeyLen], "_")
	}
	if result == "" {
		return Placeholder
	}
	return result
}
