package mention

import (
	"regexp"
	"sort"
	"strings"

	"halldesk/hall-service/internal/models"
)

// Mention is one person extracted from a session's text fields. Derived on
// every render, never persisted.
type Mention struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Source string `json:"source,omitempty"`
}

// strategy is one named extraction pass. onlyWhenEmpty is the cascade
// stopping rule made explicit: such a pass runs only when every
// higher-precedence pass came up empty.
type strategy struct {
	name          string
	onlyWhenEmpty bool
	extract       func(p *Parser, session models.Session) []Mention
}

type Parser struct {
	vocab      Vocabulary
	roleNameRe *regexp.Regexp
	strategies []strategy
}

var (
	lastParenRe = regexp.MustCompile(`^(.*)\(([^()]*)\)\s*$`)
	nameRoleRe  = regexp.MustCompile(`([A-Z][A-Za-z.'-]*(?:[ \t]+[A-Z][A-Za-z.'-]*)+)[ \t]*\(([^()]+)\)`)
	honorificRe = regexp.MustCompile(`(?:Dr|Prof|Mr|Mrs|Ms|Shri|Smt)\.?[ \t]+[A-Z][A-Za-z.'-]+(?:[ \t]+[A-Z][A-Za-z.'-]+){0,3}`)
	titleByRe   = regexp.MustCompile(`(?i)\s+(?:by|with|featuring)\s+(.+)$`)
	plainSplit  = regexp.MustCompile(`[,;/\n]`)
)

func NewParser(vocab Vocabulary) *Parser {
	p := &Parser{
		vocab:      vocab,
		roleNameRe: buildRoleNameRe(vocab),
	}
	p.strategies = []strategy{
		{name: "category_fields", extract: (*Parser).extractCategoryFields},
		{name: "name_role", extract: (*Parser).extractNameRole},
		{name: "role_name", extract: (*Parser).extractRoleName},
		{name: "comma_fallback", onlyWhenEmpty: true, extract: (*Parser).extractCommaFallback},
		{name: "honorific", extract: (*Parser).extractHonorific},
		{name: "title_suffix", extract: (*Parser).extractTitleSuffix},
	}
	return p
}

// buildRoleNameRe assembles the "Role: Name" pattern from the vocabulary's
// alias table so tuning the YAML file tunes the regex too. Longer aliases go
// first so "guest speaker" wins over "speaker".
func buildRoleNameRe(vocab Vocabulary) *regexp.Regexp {
	aliases := make([]string, 0, len(vocab.Roles))
	for alias := range vocab.Roles {
		aliases = append(aliases, regexp.QuoteMeta(alias))
	}
	sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })
	pattern := `\b(?i:(` + strings.Join(aliases, "|") + `))[ \t]*[:\-–—][ \t]*((?:(?:Dr|Prof|Mr|Mrs|Ms|Shri|Smt)\.?[ \t]+)?[A-Z][A-Za-z.'-]*(?:[ \t]+[A-Z][A-Za-z.'-]*){0,4})`
	return regexp.MustCompile(pattern)
}

// Parse runs the strategy cascade over one session and returns the
// deduplicated mention list. First occurrence of a normalized name wins its
// role and contact. Malformed text never errors; it yields fewer mentions.
func (p *Parser) Parse(session models.Session) []Mention {
	var out []Mention
	seen := make(map[string]bool)

	for _, s := range p.strategies {
		if s.onlyWhenEmpty && len(out) > 0 {
			continue
		}
		for _, candidate := range s.extract(p, session) {
			candidate.Name = CleanName(candidate.Name)
			if !ValidName(candidate.Name, p.vocab) {
				continue
			}
			key := DedupKey(candidate.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			candidate.Source = s.name
			out = append(out, candidate)
		}
	}
	return out
}

// extractCategoryFields reads the speaker/moderator/chairperson fields,
// dispatching on the tagged field kind: structured fields carry
// pipe-separated "Name (email, phone)" entries, freeform fields bare names.
func (p *Parser) extractCategoryFields(session models.Session) []Mention {
	categories := []struct {
		field models.TextField
		role  string
	}{
		{session.SpeakerField(), RoleSpeaker},
		{session.ModeratorField(), RoleModerator},
		{session.ChairpersonField(), RoleChairperson},
	}

	var out []Mention
	for _, category := range categories {
		if strings.TrimSpace(category.field.Text) == "" {
			continue
		}
		switch category.field.Kind {
		case models.FieldStructured:
			out = append(out, parseAnnotated(category.field.Text, category.role)...)
		default:
			out = append(out, parsePlain(category.field.Text, category.role)...)
		}
	}
	return out
}

// parseAnnotated handles pipe-separated "Name (email, phone)" entries. The
// split is on the last parenthesis group so names containing parentheses
// earlier in the string survive.
func parseAnnotated(text, role string) []Mention {
	var out []Mention
	for _, entry := range strings.Split(text, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := Mention{Role: role}
		if groups := lastParenRe.FindStringSubmatch(entry); groups != nil {
			m.Name = strings.TrimSpace(groups[1])
			m.Email, m.Phone = splitContact(groups[2])
		} else {
			m.Name = entry
		}
		out = append(out, m)
	}
	return out
}

// splitContact splits a parenthetical on commas: tokens containing @ are
// emails, tokens containing a digit (and no @) are phones.
func splitContact(parenthetical string) (email, phone string) {
	for _, token := range strings.Split(parenthetical, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case strings.Contains(token, "@"):
			if email == "" {
				email = token
			}
		case strings.ContainsAny(token, "0123456789"):
			if phone == "" {
				phone = token
			}
		}
	}
	return email, phone
}

func parsePlain(text, role string) []Mention {
	var out []Mention
	for _, part := range plainSplit.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Mention{Name: part, Role: role})
	}
	return out
}

// extractNameRole scans the description for "Name (Role)" where the
// parenthetical is a recognized role.
func (p *Parser) extractNameRole(session models.Session) []Mention {
	var out []Mention
	for _, groups := range nameRoleRe.FindAllStringSubmatch(session.Description, -1) {
		if !p.vocab.KnownRole(groups[2]) {
			continue
		}
		out = append(out, Mention{Name: groups[1], Role: p.vocab.CanonicalRole(groups[2])})
	}
	return out
}

// extractRoleName scans the description for "Role: Name" / "Role – Name".
func (p *Parser) extractRoleName(session models.Session) []Mention {
	var out []Mention
	for _, groups := range p.roleNameRe.FindAllStringSubmatch(session.Description, -1) {
		out = append(out, Mention{Name: groups[2], Role: p.vocab.CanonicalRole(groups[1])})
	}
	return out
}

// extractCommaFallback splits the description on commas and keeps parts that
// look like names, with an optional trailing "(Role)". Runs only when no
// other pass produced anything.
func (p *Parser) extractCommaFallback(session models.Session) []Mention {
	var out []Mention
	for _, part := range strings.Split(session.Description, ",") {
		part = strings.TrimSpace(part)
		role := RoleSpeaker
		if groups := lastParenRe.FindStringSubmatch(part); groups != nil && p.vocab.KnownRole(groups[2]) {
			role = p.vocab.CanonicalRole(groups[2])
			part = strings.TrimSpace(groups[1])
		}
		if !looksLikeName(part) {
			continue
		}
		out = append(out, Mention{Name: part, Role: role})
	}
	return out
}

// looksLikeName accepts capitalized phrases of plausible shape: one to five
// words, leading capital, letters-with-punctuation words only.
func looksLikeName(value string) bool {
	if len(value) < minNameLen || len(value) > maxNameLen {
		return false
	}
	words := strings.Fields(value)
	if len(words) == 0 || len(words) > 5 {
		return false
	}
	first := rune(words[0][0])
	if first < 'A' || first > 'Z' {
		return false
	}
	for _, word := range words {
		for _, r := range word {
			isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !isLetter && !strings.ContainsRune(".'-", r) {
				return false
			}
		}
	}
	return true
}

// extractHonorific picks honorific-prefixed names out of the free text.
func (p *Parser) extractHonorific(session models.Session) []Mention {
	var out []Mention
	for _, match := range honorificRe.FindAllString(session.Description, -1) {
		out = append(out, Mention{Name: match, Role: RoleSpeaker})
	}
	return out
}

// extractTitleSuffix picks a trailing "... by <Name>" off the session title,
// inferring the role from title keywords.
func (p *Parser) extractTitleSuffix(session models.Session) []Mention {
	groups := titleByRe.FindStringSubmatch(session.Name)
	if groups == nil {
		return nil
	}
	return []Mention{{Name: groups[1], Role: p.vocab.TitleRole(session.Name)}}
}
