package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// 1. / a) / iv: / B. followed by whitespace
	markerPattern = regexp.MustCompile(`^([0-9]{1,3}|[A-Za-z]+)[.):]\s`)

	// (1) / (a) / (iv) followed by whitespace
	parenMarkerPattern = regexp.MustCompile(`^\(([0-9]{1,3}|[A-Za-z]+)\)\s`)
)

// isBulletRune reports whether r is a bullet glyph
func isBulletRune(r rune) bool {
	switch r {
	case '•', '◦', '▪', '▫', '■', '□', '●', '○', '‣', '⁃', '∙', '·':
		return true
	}
	return false
}

// isDashMarker reports whether r is a dash-like marker; it only counts when
// followed by a space
func isDashMarker(r rune) bool {
	switch r {
	case '-', '–', '—', '*':
		return true
	}
	return false
}

// IsListItem reports whether a line of text starts with a list marker: a
// bullet glyph, a dash followed by a space, or a number, letter or roman
// numeral followed by '.', ')' or ':' and a space (optionally parenthesized
// instead).
func IsListItem(s string) bool {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return false
	}

	first, size := utf8.DecodeRuneInString(s)
	if isBulletRune(first) {
		return true
	}
	if isDashMarker(first) {
		return strings.HasPrefix(s[size:], " ")
	}

	for _, pattern := range []*regexp.Regexp{markerPattern, parenMarkerPattern} {
		if m := pattern.FindStringSubmatch(s); m != nil {
			return isMarkerLabel(m[1])
		}
	}
	return false
}

// isMarkerLabel accepts numbers, single letters and roman numerals
func isMarkerLabel(label string) bool {
	if label[0] >= '0' && label[0] <= '9' {
		return true
	}
	if len(label) == 1 {
		return true
	}
	return isValidRoman(label)
}

// isValidRoman checks if a string is a roman numeral written in one case
func isValidRoman(s string) bool {
	if len(s) == 0 || len(s) > 8 {
		return false
	}
	if s != strings.ToUpper(s) && s != strings.ToLower(s) {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune("IVXLCDM", r) {
			return false
		}
	}
	return true
}
