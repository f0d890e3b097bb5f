package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/store"
)

func TestIssueLifecycle(t *testing.T) {
	ctx := context.Background()
	issues := NewIssueStore()

	created, err := issues.CreateIssue(ctx, store.CreateIssueInput{
		IssueType:   models.IssueAVFailure,
		Description: "projector input dead",
		Hall:        "Hall A",
		SessionID:   "s1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.IssueReported {
		t.Fatalf("status=%s, want reported", created.Status)
	}
	if created.Priority != models.PriorityCritical {
		t.Fatalf("priority=%s, want critical (derived from av_failure)", created.Priority)
	}

	// Forward transitions succeed, regression is rejected.
	if _, err := issues.UpdateIssueStatus(ctx, created.IssueID, models.IssueInProgress, time.Now()); err != nil {
		t.Fatalf("forward transition: %v", err)
	}
	if _, err := issues.UpdateIssueStatus(ctx, created.IssueID, models.IssueReported, time.Now()); !errors.Is(err, store.ErrStatusRegression) {
		t.Fatalf("regression err=%v, want ErrStatusRegression", err)
	}
	if _, err := issues.UpdateIssueStatus(ctx, created.IssueID, "bogus", time.Now()); !errors.Is(err, store.ErrInvalidStatus) {
		t.Fatalf("bogus status err=%v, want ErrInvalidStatus", err)
	}
}

func TestCreateIssueRejectsUnknownType(t *testing.T) {
	issues := NewIssueStore()
	if _, err := issues.CreateIssue(context.Background(), store.CreateIssueInput{IssueType: "ufo_sighting"}); !errors.Is(err, store.ErrInvalidIssueType) {
		t.Fatalf("err=%v, want ErrInvalidIssueType", err)
	}
}

func TestListIssuesFiltersByHall(t *testing.T) {
	ctx := context.Background()
	issues := NewIssueStore()

	for _, hall := range []string{"Hall A", "Hall B", "Hall A"} {
		if _, err := issues.CreateIssue(ctx, store.CreateIssueInput{IssueType: models.IssueWaterSupply, Hall: hall}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	listed, err := issues.ListIssues(ctx, "Hall A")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d issues, want 2", len(listed))
	}
	for _, issue := range listed {
		if issue.Hall != "Hall A" {
			t.Fatalf("leaked issue from %s", issue.Hall)
		}
	}
}

func TestUpdateMissingIssue(t *testing.T) {
	issues := NewIssueStore()
	if _, err := issues.UpdateIssueStatus(context.Background(), "missing", models.IssueAcked, time.Now()); !errors.Is(err, store.ErrIssueNotFound) {
		t.Fatalf("err=%v, want ErrIssueNotFound", err)
	}
}
