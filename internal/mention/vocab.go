package mention

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical roles a mention can carry.
const (
	RoleSpeaker        = "Speaker"
	RoleModerator      = "Moderator"
	RoleChairperson    = "Chairperson"
	RoleCoChair        = "Co-Chair"
	RolePanelist       = "Panelist"
	RoleFaculty        = "Faculty"
	RoleConvener       = "Convener"
	RoleHallCoord      = "Hall Co-Ordinator"
	RoleGuestSpeaker   = "Guest Speaker"
	RoleChiefGuest     = "Chief Guest"
	RoleKeynoteSpeaker = "Keynote Speaker"
	RoleInvitedSpeaker = "Invited Speaker"
)

// Vocabulary holds the tunable parts of the parser heuristics: the role
// alias table, the stoplist of session-structure words that are never person
// names, and title keywords used to infer a role from a session name.
// All matching against it is done on lowercased input.
type Vocabulary struct {
	Roles         map[string]string `yaml:"roles"`
	Stoplist      []string          `yaml:"stoplist"`
	TitleKeywords map[string]string `yaml:"title_keywords"`
}

func defaultVocabulary() Vocabulary {
	return Vocabulary{
		Roles: map[string]string{
			"speaker":           RoleSpeaker,
			"speakers":          RoleSpeaker,
			"moderator":         RoleModerator,
			"moderators":        RoleModerator,
			"chairperson":       RoleChairperson,
			"chairpersons":      RoleChairperson,
			"chair":             RoleChairperson,
			"chairman":          RoleChairperson,
			"co-chair":          RoleCoChair,
			"co chair":          RoleCoChair,
			"cochair":           RoleCoChair,
			"panelist":          RolePanelist,
			"panellist":         RolePanelist,
			"faculty":           RoleFaculty,
			"convener":          RoleConvener,
			"convenor":          RoleConvener,
			"hall co-ordinator": RoleHallCoord,
			"hall coordinator":  RoleHallCoord,
			"guest speaker":     RoleGuestSpeaker,
			"chief guest":       RoleChiefGuest,
			"keynote speaker":   RoleKeynoteSpeaker,
			"keynote":           RoleKeynoteSpeaker,
			"invited speaker":   RoleInvitedSpeaker,
		},
		Stoplist: []string{
			"session", "break", "lunch", "dinner", "tea", "registration",
			"inauguration", "valedictory", "welcome", "vote of thanks",
			"panel discussion", "discussion", "workshop", "quiz", "tbd",
			"tba", "hall", "agenda", "felicitation",
		},
		TitleKeywords: map[string]string{
			"keynote":     RoleKeynoteSpeaker,
			"oration":     RoleKeynoteSpeaker,
			"guest":       RoleGuestSpeaker,
			"chief guest": RoleChiefGuest,
			"panel":       RolePanelist,
		},
	}
}

// LoadVocabulary returns the compiled-in vocabulary, overlaid with the YAML
// file at path when one is given. A missing or malformed file degrades to the
// defaults; tuning must never take the dashboard down.
func LoadVocabulary(path string) Vocabulary {
	vocab := defaultVocabulary()
	if path == "" {
		return vocab
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return vocab
	}
	var overlay Vocabulary
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return vocab
	}
	for alias, canonical := range overlay.Roles {
		vocab.Roles[strings.ToLower(alias)] = canonical
	}
	if len(overlay.Stoplist) > 0 {
		vocab.Stoplist = append(vocab.Stoplist, overlay.Stoplist...)
	}
	for keyword, role := range overlay.TitleKeywords {
		vocab.TitleKeywords[strings.ToLower(keyword)] = role
	}
	return vocab
}

// CanonicalRole maps a raw role string to its canonical form, or falls back
// to Speaker per the fixed default.
func (v Vocabulary) CanonicalRole(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Trim(key, ".:-– ")
	if canonical, ok := v.Roles[key]; ok {
		return canonical
	}
	return RoleSpeaker
}

// KnownRole reports whether raw maps to a vocabulary role without the
// Speaker fallback.
func (v Vocabulary) KnownRole(raw string) bool {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Trim(key, ".:-– ")
	_, ok := v.Roles[key]
	return ok
}

// Stopword reports whether the cleaned name is a session-structure word
// rather than a person.
func (v Vocabulary) Stopword(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, word := range v.Stoplist {
		if lowered == word || strings.HasPrefix(lowered, word+" ") || strings.HasSuffix(lowered, " "+word) {
			return true
		}
	}
	return false
}

// TitleRole infers a role from keywords in a session title, defaulting to
// Speaker.
func (v Vocabulary) TitleRole(title string) string {
	lowered := strings.ToLower(title)
	// Longer keywords first so "chief guest" beats "guest".
	best := ""
	role := RoleSpeaker
	for keyword, mapped := range v.TitleKeywords {
		if strings.Contains(lowered, keyword) && len(keyword) > len(best) {
			best = keyword
			role = mapped
		}
	}
	return role
}
