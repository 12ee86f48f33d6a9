package text

import "unicode/utf8"

// spacelessRanges lists code point ranges of scripts that do not separate
// words with spaces.
var spacelessRanges = [][2]rune{
	{0x0E00, 0x0E7F},   // Thai
	{0x0E80, 0x0EFF},   // Lao
	{0x0F00, 0x0FFF},   // Tibetan
	{0x1000, 0x109F},   // Myanmar
	{0x1100, 0x11FF},   // Hangul Jamo
	{0x1780, 0x17FF},   // Khmer
	{0x19E0, 0x19FF},   // Khmer Symbols
	{0x2E80, 0x2FDF},   // CJK Radicals, Kangxi Radicals
	{0x3000, 0x303F},   // CJK Symbols and Punctuation
	{0x3040, 0x309F},   // Hiragana
	{0x30A0, 0x30FF},   // Katakana
	{0x3100, 0x312F},   // Bopomofo
	{0x3130, 0x318F},   // Hangul Compatibility Jamo
	{0x31F0, 0x31FF},   // Katakana Phonetic Extensions
	{0x3200, 0x33FF},   // Enclosed CJK, CJK Compatibility
	{0x3400, 0x4DBF},   // CJK Extension A
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0xA960, 0xA97F},   // Hangul Jamo Extended-A
	{0xA9E0, 0xA9FF},   // Myanmar Extended-B
	{0xAA60, 0xAA7F},   // Myanmar Extended-A
	{0xAC00, 0xD7AF},   // Hangul Syllables
	{0xD7B0, 0xD7FF},   // Hangul Jamo Extended-B
	{0xF900, 0xFAFF},   // CJK Compatibility Ideographs
	{0xFE30, 0xFE4F},   // CJK Compatibility Forms
	{0xFF00, 0xFFEF},   // Halfwidth and Fullwidth Forms
	{0x20000, 0x2FA1F}, // CJK Extensions B-F, Compatibility Supplement
	{0x30000, 0x3134F}, // CJK Extension G
}

// IsSpaceless reports whether r belongs to a script written without
// inter-word spaces (CJK, kana, Hangul, Thai, Lao, Myanmar, Khmer, Tibetan,
// fullwidth forms).
func IsSpaceless(r rune) bool {
	if r < 0x0E00 {
		return false
	}
	for _, rng := range spacelessRanges {
		if r < rng[0] {
			return false
		}
		if r <= rng[1] {
			return true
		}
	}
	return false
}

// JoinsWithoutSpace reports whether two runs, left then right, meet at a
// boundary where both characters are in a spaceless script.
func JoinsWithoutSpace(left, right string) bool {
	last, _ := utf8.DecodeLastRuneInString(left)
	first, _ := utf8.DecodeRuneInString(right)
	if last == utf8.RuneError || first == utf8.RuneError {
		return false
	}
	return IsSpaceless(last) && IsSpaceless(first)
}
