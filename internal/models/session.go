package models

import "time"

type Session struct {
	SessionID        string          `json:"session_id"`
	EventID          string          `json:"event_id"`
	Name             string          `json:"name"`
	SessionType      string          `json:"session_type,omitempty"`
	Date             string          `json:"date"`
	StartTime        string          `json:"start_time"`
	EndTime          string          `json:"end_time"`
	Hall             string          `json:"hall"`
	Track            string          `json:"track,omitempty"`
	Description      string          `json:"description,omitempty"`
	Speakers         string          `json:"speakers,omitempty"`
	SpeakersText     string          `json:"speakers_text,omitempty"`
	Moderators       string          `json:"moderators,omitempty"`
	ModeratorsText   string          `json:"moderators_text,omitempty"`
	Chairpersons     string          `json:"chairpersons,omitempty"`
	ChairpersonsText string          `json:"chairpersons_text,omitempty"`
	Status           string          `json:"coordinator_status"`
	Checklist        map[string]bool `json:"coordinator_checklist,omitempty"`
	Notes            string          `json:"coordinator_notes,omitempty"`
	AudienceCount    int             `json:"audience_count"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

const (
	StatusScheduled      = "scheduled"
	StatusSpeakerArrived = "speaker_arrived"
	StatusInProgress     = "in_progress"
	StatusCompleted      = "completed"
	StatusDelayed        = "delayed"
	StatusSpeakerAbsent  = "speaker_absent"
	StatusCancelled      = "cancelled"
)

const (
	ChecklistSpeakerArrived     = "speaker_arrived"
	ChecklistAVReady            = "av_ready"
	ChecklistMicChecked         = "mic_checked"
	ChecklistPresentationLoaded = "presentation_loaded"
	ChecklistWaterArranged      = "water_arranged"
)

// ChecklistKeys is the fixed set of readiness flags tracked per session.
var ChecklistKeys = []string{
	ChecklistSpeakerArrived,
	ChecklistAVReady,
	ChecklistMicChecked,
	ChecklistPresentationLoaded,
	ChecklistWaterArranged,
}

// FieldKind tags how a speaker/moderator/chairperson column should be read:
// structured fields carry pipe-separated "Name (email, phone)" entries,
// freeform fields are bare comma/semicolon separated names.
type FieldKind string

const (
	FieldStructured FieldKind = "structured"
	FieldFreeform   FieldKind = "freeform"
)

type TextField struct {
	Kind FieldKind
	Text string
}

// SpeakerField returns the session's speaker text as a tagged field; the
// contact-annotated column wins over the plain one when both are present.
func (s Session) SpeakerField() TextField {
	return pickField(s.SpeakersText, s.Speakers)
}

func (s Session) ModeratorField() TextField {
	return pickField(s.ModeratorsText, s.Moderators)
}

func (s Session) ChairpersonField() TextField {
	return pickField(s.ChairpersonsText, s.Chairpersons)
}

func pickField(structured, freeform string) TextField {
	if structured != "" {
		return TextField{Kind: FieldStructured, Text: structured}
	}
	return TextField{Kind: FieldFreeform, Text: freeform}
}
