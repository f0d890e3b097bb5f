package mention

import (
	"testing"

	"halldesk/hall-service/internal/models"
)

func newTestParser() *Parser {
	return NewParser(LoadVocabulary(""))
}

func TestParseAnnotatedSpeakers(t *testing.T) {
	session := models.Session{
		SpeakersText: "Dr. Asha Rao (asha@x.com, 9876543210) | Prof. Vikram Shah (9123456789)",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 2 {
		t.Fatalf("got %d mentions, want 2: %+v", len(mentions), mentions)
	}

	first := mentions[0]
	if first.Name != "Dr. Asha Rao" || first.Role != RoleSpeaker || first.Email != "asha@x.com" || first.Phone != "9876543210" {
		t.Fatalf("first mention = %+v", first)
	}

	second := mentions[1]
	if second.Name != "Prof. Vikram Shah" || second.Role != RoleSpeaker || second.Phone != "9123456789" || second.Email != "" {
		t.Fatalf("second mention = %+v", second)
	}
}

func TestParseStructuredWinsOverPlain(t *testing.T) {
	session := models.Session{
		Speakers:     "Someone Else",
		SpeakersText: "Asha Rao (9876543210)",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 1 || mentions[0].Name != "Asha Rao" {
		t.Fatalf("mentions = %+v", mentions)
	}
}

func TestParsePlainFields(t *testing.T) {
	session := models.Session{
		Speakers:     "Asha Rao, Vikram Shah; Leela Devi / Ramesh Gupta",
		Moderators:   "Sunita Mehta",
		Chairpersons: "Prakash Joshi",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 6 {
		t.Fatalf("got %d mentions, want 6: %+v", len(mentions), mentions)
	}
	if mentions[4].Name != "Sunita Mehta" || mentions[4].Role != RoleModerator {
		t.Fatalf("moderator mention = %+v", mentions[4])
	}
	if mentions[5].Role != RoleChairperson {
		t.Fatalf("chairperson mention = %+v", mentions[5])
	}
}

func TestParseNameRolePattern(t *testing.T) {
	session := models.Session{
		Description: "Join Asha Rao (Moderator) and Vikram Shah (Panelist) for the closing.",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 2 {
		t.Fatalf("mentions = %+v", mentions)
	}
	if mentions[0].Role != RoleModerator || mentions[1].Role != RolePanelist {
		t.Fatalf("roles = %s, %s", mentions[0].Role, mentions[1].Role)
	}
}

func TestParseRoleNamePattern(t *testing.T) {
	session := models.Session{
		Description: "Keynote Speaker: Dr. Asha Rao\nModerator – Vikram Shah",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 2 {
		t.Fatalf("mentions = %+v", mentions)
	}
	if mentions[0].Name != "Dr. Asha Rao" || mentions[0].Role != RoleKeynoteSpeaker {
		t.Fatalf("first = %+v", mentions[0])
	}
	if mentions[1].Name != "Vikram Shah" || mentions[1].Role != RoleModerator {
		t.Fatalf("second = %+v", mentions[1])
	}
}

func TestCommaFallbackOnlyWhenEmpty(t *testing.T) {
	p := newTestParser()

	// Nothing else matches: the comma fallback runs.
	bare := models.Session{Description: "Asha Rao, Vikram Shah"}
	mentions := p.Parse(bare)
	if len(mentions) != 2 {
		t.Fatalf("fallback mentions = %+v", mentions)
	}
	if mentions[0].Source != "comma_fallback" {
		t.Fatalf("source = %s", mentions[0].Source)
	}

	// A structured field already produced candidates: the fallback must not
	// pick names out of the description.
	withSpeakers := models.Session{
		SpeakersText: "Leela Devi (9000000000)",
		Description:  "Asha Rao, Vikram Shah",
	}
	mentions = p.Parse(withSpeakers)
	if len(mentions) != 1 || mentions[0].Name != "Leela Devi" {
		t.Fatalf("fallback ran despite existing mentions: %+v", mentions)
	}
}

func TestHonorificExtraction(t *testing.T) {
	session := models.Session{
		Description: "A practical masterclass. Faculty support from Dr. Leela Devi and Shri Ramesh Gupta on site.",
	}

	mentions := newTestParser().Parse(session)
	names := map[string]bool{}
	for _, m := range mentions {
		names[m.Name] = true
	}
	if !names["Dr. Leela Devi"] || !names["Shri Ramesh Gupta"] {
		t.Fatalf("honorific names missing: %+v", mentions)
	}
}

func TestTitleSuffixRole(t *testing.T) {
	session := models.Session{Name: "Keynote Oration by Dr. Asha Rao"}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 1 {
		t.Fatalf("mentions = %+v", mentions)
	}
	if mentions[0].Name != "Dr. Asha Rao" || mentions[0].Role != RoleKeynoteSpeaker {
		t.Fatalf("mention = %+v", mentions[0])
	}
}

func TestDedupFirstOccurrenceWins(t *testing.T) {
	session := models.Session{
		SpeakersText: "Dr. Asha Rao (asha@x.com, 9876543210)",
		Description:  "Asha Rao (Moderator) leads the session.",
	}

	mentions := newTestParser().Parse(session)
	if len(mentions) != 1 {
		t.Fatalf("dedup failed: %+v", mentions)
	}
	// The structured field came first, so its role and contact stick.
	if mentions[0].Role != RoleSpeaker || mentions[0].Phone != "9876543210" {
		t.Fatalf("mention = %+v", mentions[0])
	}
}

func TestRejectionRules(t *testing.T) {
	vocab := LoadVocabulary("")
	cases := []struct {
		name  string
		valid bool
	}{
		{"Asha Rao", true},
		{"A", false},
		{"12345", false},
		{"Lunch Break", false},
		{"Registration", false},
		{"Tea", false},
		{"-- --", false},
	}
	for _, tt := range cases {
		if got := ValidName(tt.name, vocab); got != tt.valid {
			t.Fatalf("ValidName(%q)=%v, want %v", tt.name, got, tt.valid)
		}
	}

	// Stoplist names never survive a full parse.
	session := models.Session{Speakers: "Lunch Break, Asha Rao, Registration"}
	mentions := newTestParser().Parse(session)
	if len(mentions) != 1 || mentions[0].Name != "Asha Rao" {
		t.Fatalf("stoplist leak: %+v", mentions)
	}
}

func TestParseMalformedTextYieldsNothing(t *testing.T) {
	session := models.Session{
		SpeakersText: "|||",
		Description:  "(((((",
	}
	if mentions := newTestParser().Parse(session); len(mentions) != 0 {
		t.Fatalf("mentions = %+v", mentions)
	}
}

func TestCleanNameStripsFormatting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"**Dr. Asha Rao**", "Dr. Asha Rao"},
		{"  Vikram   Shah ", "Vikram Shah"},
		{"Leela Devi,", "Leela Devi"},
		{"`Ramesh`\nGupta", "Ramesh Gupta"},
	}
	for _, tt := range cases {
		if got := CleanName(tt.in); got != tt.want {
			t.Fatalf("CleanName(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
