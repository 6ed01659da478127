package textnormalizer

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw sentence (reference or engine hypothesis) into
// a comparable token sequence:
//   - all characters are lower-cased,
//   - punctuation and symbols are deleted in place (so "long-practiced"
//     becomes "longpracticed", matching how the corpus references were
//     normalized upstream),
//   - apostrophes interior to a token are preserved ("Majesty's" stays one
//     token), leading/trailing apostrophes are trimmed,
//   - whitespace runs collapse into single separators.
//
// Digits and underscore are treated as word characters. Any string is valid
// input; empty or all-punctuation input yields an empty sequence.
func Normalize(sentence string) []string {
	if sentence == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(sentence))
	for _, r := range strings.ToLower(sentence) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '\'' || r == '’': // keep apostrophes for now, trimmed per token below
			b.WriteRune('\'')
		default:
			// Other punctuation and symbols are dropped without leaving a separator.
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
