// Package notify formats messaging handoffs. Nothing here sends anything:
// the dashboard opens a deep link or copies a payload, and the external
// messaging app does the delivery.
package notify

import (
	"net/url"
	"strconv"
	"strings"
)

// Handoff is a ready-to-use contact action: a WhatsApp deep link when a
// phone number is available, plus the raw message for clipboard copy.
type Handoff struct {
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
	WhatsApp  string `json:"whatsapp_link,omitempty"`
	Clipboard string `json:"clipboard"`
}

// Build renders the handoff for a phone and message. A missing or unusable
// phone yields a clipboard-only handoff rather than an error.
func Build(phone, message string) Handoff {
	handoff := Handoff{Message: message, Clipboard: message}
	digits := normalizePhone(phone)
	if digits == "" {
		return handoff
	}
	handoff.Phone = digits
	handoff.WhatsApp = "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
	handoff.Clipboard = digits + "\n" + message
	return handoff
}

// normalizePhone strips formatting and returns bare digits, defaulting bare
// 10-digit numbers to the Indian country code the events run under.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 8 || len(digits) > 15 {
		return ""
	}
	if len(digits) == 10 {
		return "91" + digits
	}
	return digits
}

// Render substitutes {placeholder} fields in a message template.
func Render(template string, fields map[string]string) string {
	out := template
	for key, value := range fields {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

const (
	issueTemplate    = "[{priority}] {issue_type} in {hall}: {description} (session: {session})"
	reminderTemplate = "Hello {name}, this is the {hall} coordinator desk. Your session \"{session}\" is scheduled at {time}. Please reach the hall 15 minutes early."
	delayedTemplate  = "Hello {name}, this is the {hall} coordinator desk. Your session \"{session}\" is running about {delay} min late; revised start {time}."
)

// IssueMessage renders the escalation text for a reported issue.
func IssueMessage(priority, issueType, hall, description, sessionName string) string {
	if sessionName == "" {
		sessionName = "-"
	}
	return Render(issueTemplate, map[string]string{
		"priority":    strings.ToUpper(priority),
		"issue_type":  issueType,
		"hall":        hall,
		"description": description,
		"session":     sessionName,
	})
}

// SpeakerMessage renders the speaker reminder, switching wording when the
// agenda is running late.
func SpeakerMessage(name, hall, sessionName, startTime string, delayMinutes int) string {
	if delayMinutes > 0 {
		return Render(delayedTemplate, map[string]string{
			"name":    name,
			"hall":    hall,
			"session": sessionName,
			"delay":   strconv.Itoa(delayMinutes),
			"time":    startTime,
		})
	}
	return Render(reminderTemplate, map[string]string{
		"name":    name,
		"hall":    hall,
		"session": sessionName,
		"time":    startTime,
	})
}
