package textnormalizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     []string
	}{
		{
			name:     "lowercases_and_strips_punctuation",
			sentence: "The cat sat.",
			want:     []string{"the", "cat", "sat"},
		},
		{
			name:     "contraction_stays_one_token",
			sentence: "Her Majesty's procession",
			want:     []string{"her", "majesty's", "procession"},
		},
		{
			name:     "curly_apostrophe",
			sentence: "it’s fine",
			want:     []string{"it's", "fine"},
		},
		{
			name:     "collapses_whitespace",
			sentence: "  hello \t world\n",
			want:     []string{"hello", "world"},
		},
		{
			name:     "hyphen_deleted_in_place",
			sentence: "long-practiced",
			want:     []string{"longpracticed"},
		},
		{
			name:     "quoted_word",
			sentence: `"hello," she said!`,
			want:     []string{"hello", "she", "said"},
		},
		{
			name:     "leading_apostrophe_trimmed",
			sentence: "'twas 'ere",
			want:     []string{"twas", "ere"},
		},
		{
			name:     "digits_kept",
			sentence: "room 101",
			want:     []string{"room", "101"},
		},
		{
			name:     "empty_input",
			sentence: "",
			want:     nil,
		},
		{
			name:     "punctuation_only",
			sentence: "?!... --- ...",
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.sentence)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.sentence, got, tt.want)
			}
		})
	}
}

// Re-normalizing a normalized sentence must not change it.
func TestNormalizeIdempotent(t *testing.T) {
	sentences := []string{
		"The cat sat.",
		"Her Majesty's long-practiced procession to Tyburn!",
		"  mixed \t WHITESPACE, and... punctuation?! ",
		"",
	}
	for _, s := range sentences {
		once := Normalize(s)
		twice := Normalize(strings.Join(once, " "))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Normalize not idempotent for %q: first %v, second %v", s, once, twice)
		}
	}
}
