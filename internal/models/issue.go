package models

import "time"

type Issue struct {
	IssueID     string    `json:"issue_id"`
	IssueType   string    `json:"issue_type"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	SessionID   string    `json:"session_id,omitempty"`
	Hall        string    `json:"hall"`
	ReportedBy  string    `json:"reported_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	IssueAVFailure       = "av_failure"
	IssueMicFailure      = "mic_failure"
	IssueProjectorIssue  = "projector_issue"
	IssueACIssue         = "ac_issue"
	IssuePowerOutage     = "power_outage"
	IssueSpeakerMissing  = "speaker_missing"
	IssueScheduleOverrun = "schedule_overrun"
	IssueOvercrowding    = "overcrowding"
	IssueWaterSupply     = "water_supply"
	IssueHousekeeping    = "housekeeping"
	IssueMedical         = "medical_emergency"
	IssueSecurity        = "security"
	IssueOther           = "other"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

const (
	IssueReported   = "reported"
	IssueAcked      = "acknowledged"
	IssueInProgress = "in_progress"
	IssueResolved   = "resolved"
)

var issuePriority = map[string]string{
	IssueAVFailure:       PriorityCritical,
	IssuePowerOutage:     PriorityCritical,
	IssueMedical:         PriorityCritical,
	IssueMicFailure:      PriorityHigh,
	IssueProjectorIssue:  PriorityHigh,
	IssueSpeakerMissing:  PriorityHigh,
	IssueSecurity:        PriorityHigh,
	IssueScheduleOverrun: PriorityMedium,
	IssueOvercrowding:    PriorityMedium,
	IssueACIssue:         PriorityMedium,
	IssueWaterSupply:     PriorityLow,
	IssueHousekeeping:    PriorityLow,
	IssueOther:           PriorityLow,
}

// IssuePriority derives the priority from the issue type. Unknown types get
// the lowest priority rather than an error; the catalog check belongs to the
// store layer.
func IssuePriority(issueType string) string {
	if priority, ok := issuePriority[issueType]; ok {
		return priority
	}
	return PriorityLow
}

// ValidIssueType reports whether issueType belongs to the fixed catalog.
func ValidIssueType(issueType string) bool {
	_, ok := issuePriority[issueType]
	return ok
}
