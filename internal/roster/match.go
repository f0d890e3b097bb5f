package roster

import "strings"

// Match score bands. The rules are strictly descending: the first band that
// applies to a (query, candidate) pair is its score, and the resolver keeps
// the highest score across all of an entry's name variants.
const (
	ScoreExact          = 100
	ScoreTokenSubset    = 80
	ScoreFirstLast      = 70
	ScoreLastFirstPref  = 60
	ScoreContains       = 50
	ScoreTwoTokens      = 40
	ScoreSingleToken    = 30
	ScoreTokenSubstring = 20

	// MatchThreshold is the minimum score the best candidate must reach
	// before a contact is returned. Below it, token overlap is more often
	// coincidence (a shared common first name) than identity; the resolver
	// prefers no contact over a wrong contact.
	MatchThreshold = 30
)

// Score compares two raw names and returns the match score band, or 0 when
// nothing matches. Both names are normalized before comparison.
func Score(query, candidate string) int {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return ScoreExact
	}

	qTokens := Tokens(q)
	cTokens := Tokens(c)

	// The subset and containment bands are restricted to multi-token names;
	// a lone token inside a longer name is exactly what the 30/20 bands (and
	// the threshold) exist to keep suspect.
	multi := len(qTokens) >= 2 && len(cTokens) >= 2

	if multi && (tokenSubset(qTokens, cTokens) || tokenSubset(cTokens, qTokens)) {
		return ScoreTokenSubset
	}

	qFirst, qLast := firstLast(qTokens)
	cFirst, cLast := firstLast(cTokens)

	if multi && qFirst == cFirst && qLast == cLast {
		return ScoreFirstLast
	}
	if multi && qLast == cLast && prefixEither(qFirst, cFirst) {
		return ScoreLastFirstPref
	}
	if multi && (strings.Contains(q, c) || strings.Contains(c, q)) {
		return ScoreContains
	}
	if matchingTokenPairs(qTokens, cTokens) >= 2 {
		return ScoreTwoTokens
	}
	if len(qTokens) == 1 && containsToken(cTokens, qTokens[0]) {
		return ScoreSingleToken
	}
	if anySubstringPair(qTokens, cTokens) {
		return ScoreTokenSubstring
	}
	return 0
}

func firstLast(tokens []string) (string, string) {
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], tokens[len(tokens)-1]
}

func tokenSubset(subset, superset []string) bool {
	if len(subset) == 0 || len(subset) > len(superset) {
		return false
	}
	for _, token := range subset {
		if !containsToken(superset, token) {
			return false
		}
	}
	return true
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

func prefixEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// matchingTokenPairs counts query tokens with an equal or substring partner
// among the candidate tokens.
func matchingTokenPairs(qTokens, cTokens []string) int {
	count := 0
	for _, q := range qTokens {
		for _, c := range cTokens {
			if q == c || substringPair(q, c) {
				count++
				break
			}
		}
	}
	return count
}

func anySubstringPair(qTokens, cTokens []string) bool {
	for _, q := range qTokens {
		for _, c := range cTokens {
			if substringPair(q, c) {
				return true
			}
		}
	}
	return false
}

func substringPair(a, b string) bool {
	// Single characters substring-match almost anything; require some
	// substance before calling two tokens related.
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
