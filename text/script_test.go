package text

import "testing"

func TestIsSpaceless(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', false},
		{'1', false},
		{'é', false},
		{'Ж', false},
		{'中', true},
		{'あ', true},
		{'カ', true},
		{'한', true},
		{'ก', true},
		{'ລ', true},
		{'က', true},
		{'ក', true},
		{'ཀ', true},
		{'。', true},
		{'Ａ', true},
		{'𠀀', true},
		{'ا', false},
	}

	for _, tt := range tests {
		if got := IsSpaceless(tt.r); got != tt.want {
			t.Errorf("IsSpaceless(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestJoinsWithoutSpace(t *testing.T) {
	tests := []struct {
		left, right string
		want        bool
	}{
		{"中文", "文本", true},
		{"日本", "abc", false},
		{"abc", "日本", false},
		{"hello", "world", false},
		{"", "中", false},
	}

	for _, tt := range tests {
		if got := JoinsWithoutSpace(tt.left, tt.right); got != tt.want {
			t.Errorf("JoinsWithoutSpace(%q, %q) = %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}
