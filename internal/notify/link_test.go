package notify

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	handoff := Build("98765 43210", "AV down in Hall A")
	if handoff.Phone != "919876543210" {
		t.Fatalf("phone=%q", handoff.Phone)
	}
	if !strings.HasPrefix(handoff.WhatsApp, "https://wa.me/919876543210?text=") {
		t.Fatalf("whatsapp link=%q", handoff.WhatsApp)
	}
	if !strings.Contains(handoff.WhatsApp, "AV+down+in+Hall+A") {
		t.Fatalf("message not encoded: %q", handoff.WhatsApp)
	}
	if !strings.Contains(handoff.Clipboard, "AV down in Hall A") {
		t.Fatalf("clipboard=%q", handoff.Clipboard)
	}
}

func TestBuildWithoutPhone(t *testing.T) {
	handoff := Build("", "note to self")
	if handoff.WhatsApp != "" || handoff.Phone != "" {
		t.Fatalf("expected clipboard-only handoff: %+v", handoff)
	}
	if handoff.Clipboard != "note to self" {
		t.Fatalf("clipboard=%q", handoff.Clipboard)
	}

	if got := Build("12", "short"); got.WhatsApp != "" {
		t.Fatalf("implausible phone produced a link: %+v", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "919876543210"},
		{"+91 98765 43210", "919876543210"},
		{"91-98765-43210", "919876543210"},
		{"12345", ""},
		{"", ""},
	}
	for _, tt := range cases {
		if got := normalizePhone(tt.in); got != tt.want {
			t.Fatalf("normalizePhone(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIssueMessage(t *testing.T) {
	message := IssueMessage("critical", "av_failure", "Hall A", "projector input dead", "Live Surgery Panel")
	for _, want := range []string{"[CRITICAL]", "av_failure", "Hall A", "projector input dead", "Live Surgery Panel"} {
		if !strings.Contains(message, want) {
			t.Fatalf("message %q missing %q", message, want)
		}
	}

	withoutSession := IssueMessage("low", "water_supply", "Hall B", "no bottles", "")
	if !strings.Contains(withoutSession, "(session: -)") {
		t.Fatalf("message=%q", withoutSession)
	}
}

func TestSpeakerMessage(t *testing.T) {
	onTime := SpeakerMessage("Dr. Asha Rao", "Hall A", "Keynote", "10:00", 0)
	if strings.Contains(onTime, "late") {
		t.Fatalf("on-time message mentions delay: %q", onTime)
	}

	late := SpeakerMessage("Dr. Asha Rao", "Hall A", "Keynote", "10:15", 15)
	if !strings.Contains(late, "15 min late") || !strings.Contains(late, "10:15") {
		t.Fatalf("late message=%q", late)
	}
}
