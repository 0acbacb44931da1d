package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the two supported interface languages
type Locale string

const (
	French Locale = "fr"
	Arabic Locale = "ar"
)

// Default is the locale used before the user picks one
const Default = French

// Direction is the text direction implied by a locale
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// All returns the supported locales in display order
func All() []Locale {
	return []Locale{French, Arabic}
}

// Parse converts a config or UI value into a Locale
func Parse(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unsupported locale: %q", s)
	}
	return l, nil
}

// Valid reports whether l is a supported locale
func (l Locale) Valid() bool {
	return l == French || l == Arabic
}

// Direction returns RTL for Arabic and LTR otherwise
func (l Locale) Direction() Direction {
	if l == Arabic {
		return RTL
	}
	return LTR
}

// Tag returns the BCP 47 tag for the locale
func (l Locale) Tag() language.Tag {
	if l == Arabic {
		return language.Arabic
	}
	return language.French
}

// DisplayName returns the locale's name written in that locale
func (l Locale) DisplayName() string {
	if l == Arabic {
		return "العربية"
	}
	return "Français"
}

// Mirror returns items in visual order for the given direction.
// RTL reverses element order; the input slice is never modified.
func Mirror[T any](dir Direction, items []T) []T {
	out := make([]T, len(items))
	if dir != RTL {
		copy(out, items)
		return out
	}
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
