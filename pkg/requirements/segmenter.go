// Package requirements splits free-form requirement prose into checklist item texts.
package requirements

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxItems caps the fragments produced from one requirement string.
	MaxItems = 60
	// fallbackMinLength is the input length above which unmarked prose is split on punctuation.
	fallbackMinLength = 80
	minFragmentLength = 3
)

var (
	// Empty parenthesis pairs act as bullet markers: "a () b ( ) c".
	markerPattern = regexp.MustCompile(`\(\s*\)\s*`)
	// Khmer full stop, semicolon, spaced hyphen or spaced bullet.
	punctuationPattern = regexp.MustCompile(`[។;]|(?: - )|(?: • )`)
)

// Normalize collapses every run of whitespace to a single space and trims the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Split turns a raw requirement string into ordered checklist item texts.
func Split(raw string) []string {
	text := Normalize(raw)
	if text == "" {
		return []string{}
	}

	parts := collect(markerPattern.Split(text, -1), 1)
	if len(parts) <= 1 && utf8.RuneCountInString(text) > fallbackMinLength {
		parts = collect(punctuationPattern.Split(text, -1), minFragmentLength)
	}

	if len(parts) > MaxItems {
		parts = parts[:MaxItems]
	}
	return parts
}

func collect(fragments []string, minLen int) []string {
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = Normalize(fragment)
		if utf8.RuneCountInString(fragment) < minLen {
			continue
		}
		out = append(out, fragment)
	}
	return out
}

// Key is the comparison form used to detect duplicate item texts.
func Key(s string) string {
	return strings.ToLower(Normalize(s))
}
