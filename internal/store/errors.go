package store

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrCoordinatorNotFound = errors.New("coordinator not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidStatus       = errors.New("invalid coordinator status")
	ErrUnknownChecklistKey = errors.New("unknown checklist key")
	ErrInvalidIssueType    = errors.New("invalid issue type")
	ErrIssueNotFound       = errors.New("issue not found")
	ErrStatusRegression    = errors.New("issue status cannot move backwards")
	ErrInvalidPIN          = errors.New("invalid pin")
)
