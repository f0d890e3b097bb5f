package store

import "halldesk/hall-service/internal/models"

// statusSet is the closed set of coordinator statuses. Transitions are
// permissive: a coordinator may set any status from any other
// (a session can jump straight to cancelled), so membership is the only
// validation.
var statusSet = map[string]bool{
	models.StatusScheduled:      true,
	models.StatusSpeakerArrived: true,
	models.StatusInProgress:     true,
	models.StatusCompleted:      true,
	models.StatusDelayed:        true,
	models.StatusSpeakerAbsent:  true,
	models.StatusCancelled:      true,
}

func ValidStatus(status string) bool {
	return statusSet[status]
}

// SuggestedNext maps each status to the transitions the UI offers first.
// Advisory only; nothing enforces it.
var SuggestedNext = map[string][]string{
	models.StatusScheduled:      {models.StatusSpeakerArrived, models.StatusDelayed, models.StatusCancelled},
	models.StatusSpeakerArrived: {models.StatusInProgress, models.StatusDelayed},
	models.StatusInProgress:     {models.StatusCompleted, models.StatusDelayed},
	models.StatusDelayed:        {models.StatusInProgress, models.StatusCancelled},
	models.StatusSpeakerAbsent:  {models.StatusCancelled, models.StatusSpeakerArrived},
}

func ValidChecklistKey(key string) bool {
	for _, known := range models.ChecklistKeys {
		if key == known {
			return true
		}
	}
	return false
}

// issueStatusOrder drives the monotonic issue lifecycle.
var issueStatusOrder = map[string]int{
	models.IssueReported:   0,
	models.IssueAcked:      1,
	models.IssueInProgress: 2,
	models.IssueResolved:   3,
}

func ValidIssueStatus(status string) bool {
	_, ok := issueStatusOrder[status]
	return ok
}

// ValidIssueTransition reports whether an issue may move from one status to
// another: forward only, never backwards, repeats allowed.
func ValidIssueTransition(from, to string) bool {
	fromRank, ok := issueStatusOrder[from]
	if !ok {
		return false
	}
	toRank, ok := issueStatusOrder[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}
