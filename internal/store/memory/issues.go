// Package memory holds the in-memory IssueStore. Issues reported from the
// hall floor live for the process lifetime only; escalation happens over
// messaging handoffs, so nothing needs to outlive the event day.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/store"

	"github.com/google/uuid"
)

type IssueStore struct {
	mu     sync.RWMutex
	issues map[string]models.Issue
}

func NewIssueStore() *IssueStore {
	return &IssueStore{issues: make(map[string]models.Issue)}
}

func (s *IssueStore) CreateIssue(_ context.Context, input store.CreateIssueInput) (models.Issue, error) {
	if !models.ValidIssueType(input.IssueType) {
		return models.Issue{}, store.ErrInvalidIssueType
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	issue := models.Issue{
		IssueID:     uuid.NewString(),
		IssueType:   input.IssueType,
		Description: input.Description,
		Priority:    models.IssuePriority(input.IssueType),
		Status:      models.IssueReported,
		SessionID:   input.SessionID,
		Hall:        input.Hall,
		ReportedBy:  input.ReportedBy,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.mu.Lock()
	s.issues[issue.IssueID] = issue
	s.mu.Unlock()

	return issue, nil
}

func (s *IssueStore) ListIssues(_ context.Context, hall string) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		if hall != "" && issue.Hall != hall {
			continue
		}
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *IssueStore) UpdateIssueStatus(_ context.Context, issueID, status string, at time.Time) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[issueID]
	if !ok {
		return models.Issue{}, store.ErrIssueNotFound
	}
	if !store.ValidIssueTransition(issue.Status, status) {
		if !store.ValidIssueStatus(status) {
			return models.Issue{}, store.ErrInvalidStatus
		}
		return models.Issue{}, store.ErrStatusRegression
	}

	issue.Status = status
	if at.IsZero() {
		at = time.Now().UTC()
	}
	issue.UpdatedAt = at
	s.issues[issueID] = issue
	return issue, nil
}
