package mention

import "strings"

const (
	minNameLen = 2
	maxNameLen = 60
)

// CleanName strips markdown and formatting noise from a candidate name and
// collapses whitespace. Title casing in the source text is preserved.
func CleanName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '*', '_', '`', '#', '~', '[', ']', '"':
			// markdown / formatting noise
		case '\n', '\t':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	return strings.Trim(cleaned, " ,;:-–")
}

// ValidName applies the rejection rules: plausible length, at least one
// alphabetic run of two letters, not purely numeric, not a stoplist word.
func ValidName(name string, vocab Vocabulary) bool {
	if len(name) < minNameLen || len(name) > maxNameLen {
		return false
	}
	if !hasAlphaRun(name, 2) {
		return false
	}
	if vocab.Stopword(name) {
		return false
	}
	return true
}

func hasAlphaRun(value string, minRun int) bool {
	run := 0
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			run++
			if run >= minRun {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

var dedupHonorifics = []string{"dr", "prof", "mr", "mrs", "ms", "shri", "smt"}

// DedupKey reduces a cleaned name to the key used for deduplication:
// lowercased, leading honorifics dropped, everything non-alphabetic
// stripped. "Dr. Asha Rao" and "Asha Rao" collapse to the same key.
func DedupKey(name string) string {
	tokens := strings.Fields(strings.ToLower(name))
	for len(tokens) > 0 {
		stripped := false
		bare := strings.Trim(tokens[0], ".")
		for _, h := range dedupHonorifics {
			if bare == h {
				tokens = tokens[1:]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	var b strings.Builder
	for _, token := range tokens {
		for _, r := range token {
			if r >= 'a' && r <= 'z' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
