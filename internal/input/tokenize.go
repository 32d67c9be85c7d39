// Package input turns text into the token stream the VM reads.
package input

import (
	"strings"
	"unicode"
)

// Tokenize splits a line into tokens. Whitespace separates tokens and each
// of { } [ ] is a token of its own. A double-quoted run, escapes included,
// stays one token with its quotes. A # at the start of a token comments out
// the rest of the line.
func Tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '{' || r == '}' || r == '[' || r == ']':
			flush()
			tokens = append(tokens, string(r))
		case r == '#' && cur.Len() == 0:
			return tokens
		case r == '"' && cur.Len() == 0:
			j := i + 1
			for ; j < len(runes) && runes[j] != '"'; j++ {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
				}
			}
			if j >= len(runes) {
				j = len(runes) - 1
			}
			tokens = append(tokens, string(runes[i:j+1]))
			i = j
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
