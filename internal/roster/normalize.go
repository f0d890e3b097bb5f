package roster

import "strings"

// honorifics are stripped from the front of a name before matching so that
// "Dr. Asha Rao" and "Asha Rao" compare equal.
var honorifics = []string{"dr", "prof", "mr", "mrs", "ms", "shri", "smt"}

// Normalize lowercases a name, strips leading honorifics, drops everything
// non-alphabetic, and collapses whitespace.
func Normalize(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	cleaned := strings.TrimSpace(b.String())

	tokens := strings.Fields(cleaned)
	for len(tokens) > 0 && isHonorific(tokens[0]) {
		tokens = tokens[1:]
	}

	// Bare initials ("A. Rao") carry almost no identifying signal and would
	// otherwise trip the prefix band against any name sharing a surname.
	kept := tokens[:0]
	for _, token := range tokens {
		if len(token) >= 2 {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

func isHonorific(token string) bool {
	for _, h := range honorifics {
		if token == h {
			return true
		}
	}
	return false
}

// Tokens splits an already-normalized name into its parts.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
