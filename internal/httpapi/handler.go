package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"halldesk/hall-service/internal/dashboard"
	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/notify"
	"halldesk/hall-service/internal/schedule"
	"halldesk/hall-service/internal/store"
)

const dateLayout = "2006-01-02"

type Handler struct {
	sessions     store.SessionStore
	issues       store.IssueStore
	coordinators store.CoordinatorStore
	builder      *dashboard.Builder
	clock        func() time.Time

	// Last good session snapshot per (event, hall, date): a fetch failure
	// serves stale data instead of a blank dashboard.
	mu            sync.Mutex
	lastSnapshots map[string][]models.Session
}

type Options struct {
	Clock func() time.Time
}

func NewHandler(sessions store.SessionStore, issues store.IssueStore, coordinators store.CoordinatorStore, builder *dashboard.Builder, options Options) *Handler {
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Handler{
		sessions:      sessions,
		issues:        issues,
		coordinators:  coordinators,
		builder:       builder,
		clock:         clock,
		lastSnapshots: make(map[string][]models.Session),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/dashboard", h.handleDashboard)
	mux.HandleFunc("/api/sessions", h.handleSessionList)
	mux.HandleFunc("/api/sessions/", h.handleSessionActions)
	mux.HandleFunc("/api/issues", h.handleIssues)
	mux.HandleFunc("/api/issues/", h.handleIssueActions)
	mux.HandleFunc("/api/contacts/resolve", h.handleResolveContact)
	mux.HandleFunc("/api/handoff/whatsapp", h.handleHandoff)
	mux.HandleFunc("/api/coordinator/me", h.handleMe)
	mux.HandleFunc("/api/coordinator/verify", h.handleVerifyPIN)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type dashboardResponse struct {
	dashboard.View
	Stale bool `json:"stale"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	now := h.clock()
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = now.Format(dateLayout)
	}

	sessions, stale, err := h.fetchSessions(r, coordinator, date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	view := h.builder.Build(coordinator.Hall, date, sessions, now)
	writeJSON(w, http.StatusOK, dashboardResponse{View: view, Stale: stale})
}

type sessionListResponse struct {
	Sessions []models.Session `json:"sessions"`
	Stale    bool             `json:"stale"`
}

func (h *Handler) handleSessionList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	sessions, stale, err := h.fetchSessions(r, coordinator, date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: sessions, Stale: stale})
}

// fetchSessions lists the coordinator's hall sessions, falling back to the
// last good snapshot when the store is unreachable so the dashboard keeps
// operating on stale data.
func (h *Handler) fetchSessions(r *http.Request, coordinator models.Coordinator, date string) ([]models.Session, bool, error) {
	key := coordinator.EventID + "|" + coordinator.Hall + "|" + date

	sessions, err := h.sessions.ListSessions(r.Context(), coordinator.EventID, coordinator.Hall, date)
	if err != nil {
		h.mu.Lock()
		cached, ok := h.lastSnapshots[key]
		h.mu.Unlock()
		if ok {
			return cached, true, nil
		}
		return nil, false, err
	}

	h.mu.Lock()
	h.lastSnapshots[key] = sessions
	h.mu.Unlock()
	return sessions, false, nil
}

type statusRequest struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type notesRequest struct {
	RequestID string `json:"request_id"`
	Notes     string `json:"notes"`
}

type audienceRequest struct {
	RequestID string `json:"request_id"`
	Count     *int   `json:"count"`
}

type checklistRequest struct {
	RequestID string `json:"request_id"`
}

func (h *Handler) handleSessionActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sessionID := parts[0]
	session, ok := h.ownedSession(w, r, sessionID, coordinator)
	if !ok {
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "status":
		h.handleSetStatus(w, r, session)
	case len(parts) == 3 && parts[1] == "checklist":
		h.handleToggleChecklist(w, r, session, parts[2])
	case len(parts) == 2 && parts[1] == "notes":
		h.handleSetNotes(w, r, session)
	case len(parts) == 2 && parts[1] == "audience":
		h.handleSetAudience(w, r, session)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ownedSession loads the session and checks it belongs to the coordinator's
// hall; a coordinator never writes into another hall's agenda.
func (h *Handler) ownedSession(w http.ResponseWriter, r *http.Request, sessionID string, coordinator models.Coordinator) (models.Session, bool) {
	session, found, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return models.Session{}, false
	}
	if !found {
		writeError(w, requestIDFromRequest(r), http.StatusNotFound, "session_not_found", "session not found")
		return models.Session{}, false
	}
	if session.EventID != coordinator.EventID || session.Hall != coordinator.Hall {
		writeError(w, requestIDFromRequest(r), http.StatusForbidden, "access_denied", "hall access denied")
		return models.Session{}, false
	}
	return session, true
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request, session models.Session) {
	var req statusRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	if !store.ValidStatus(req.Status) {
		writeError(w, req.RequestID, http.StatusBadRequest, "invalid_status", "status must be one of the coordinator status set")
		return
	}

	updated, err := h.sessions.UpdateCoordinator(r.Context(), store.UpdateCoordinatorInput{
		SessionID: session.SessionID,
		Status:    &req.Status,
		UpdatedAt: h.clock().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleToggleChecklist(w http.ResponseWriter, r *http.Request, session models.Session, key string) {
	var req checklistRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !store.ValidChecklistKey(key) {
		writeError(w, req.RequestID, http.StatusBadRequest, "unknown_checklist_key", "unknown checklist key")
		return
	}

	updated, err := h.sessions.SetChecklistItem(r.Context(), session.SessionID, key, !session.Checklist[key])
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleSetNotes(w http.ResponseWriter, r *http.Request, session models.Session) {
	var req notesRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.sessions.UpdateCoordinator(r.Context(), store.UpdateCoordinatorInput{
		SessionID: session.SessionID,
		Notes:     &req.Notes,
		UpdatedAt: h.clock().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleSetAudience(w http.ResponseWriter, r *http.Request, session models.Session) {
	var req audienceRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Count == nil || *req.Count < 0 {
		writeError(w, req.RequestID, http.StatusBadRequest, "invalid_request", "count must be a non-negative integer")
		return
	}

	updated, err := h.sessions.UpdateCoordinator(r.Context(), store.UpdateCoordinatorInput{
		SessionID:     session.SessionID,
		AudienceCount: req.Count,
		UpdatedAt:     h.clock().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type createIssueRequest struct {
	RequestID   string `json:"request_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
	SessionID   string `json:"session_id"`
}

func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		issues, err := h.issues.ListIssues(r.Context(), coordinator.Hall)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, requestIDFromRequest(r), status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, issues)
	case http.MethodPost:
		var req createIssueRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.IssueType = strings.TrimSpace(req.IssueType)
		if req.IssueType == "" {
			writeError(w, req.RequestID, http.StatusBadRequest, "invalid_request", "issue_type is required")
			return
		}

		issue, err := h.issues.CreateIssue(r.Context(), store.CreateIssueInput{
			IssueType:   req.IssueType,
			Description: strings.TrimSpace(req.Description),
			SessionID:   strings.TrimSpace(req.SessionID),
			Hall:        coordinator.Hall,
			ReportedBy:  coordinator.Name,
			CreatedAt:   h.clock().UTC(),
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, req.RequestID, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, issue)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type issueStatusRequest struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

func (h *Handler) handleIssueActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireCoordinator(w, r); !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/issues/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "status" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req issueStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	issue, err := h.issues.UpdateIssueStatus(r.Context(), parts[0], strings.TrimSpace(req.Status), h.clock().UTC())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

type resolveResponse struct {
	Matched bool   `json:"matched"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Score   int    `json:"score,omitempty"`
}

func (h *Handler) handleResolveContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireCoordinator(w, r); !ok {
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	contact, ok := h.builder.Resolve(name)
	if !ok {
		// A sub-threshold best score and no candidate at all are the same
		// outcome: no contact, not an error.
		writeJSON(w, http.StatusOK, resolveResponse{Matched: false})
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Matched: true,
		Name:    contact.Name,
		Phone:   contact.Phone,
		Email:   contact.Email,
		Score:   contact.Score,
	})
}

type handoffRequest struct {
	RequestID string `json:"request_id"`
	Kind      string `json:"kind"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	IssueID   string `json:"issue_id"`
}

func (h *Handler) handleHandoff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	var req handoffRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	switch strings.TrimSpace(req.Kind) {
	case "issue":
		h.handleIssueHandoff(w, r, coordinator, req)
	case "speaker":
		h.handleSpeakerHandoff(w, r, coordinator, req)
	default:
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, req.RequestID, http.StatusBadRequest, "invalid_request", "message is required")
			return
		}
		writeJSON(w, http.StatusOK, notify.Build(req.Phone, req.Message))
	}
}

func (h *Handler) handleIssueHandoff(w http.ResponseWriter, r *http.Request, coordinator models.Coordinator, req handoffRequest) {
	issues, err := h.issues.ListIssues(r.Context(), coordinator.Hall)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}

	var issue *models.Issue
	for i := range issues {
		if issues[i].IssueID == req.IssueID {
			issue = &issues[i]
			break
		}
	}
	if issue == nil {
		writeError(w, req.RequestID, http.StatusNotFound, "issue_not_found", "issue not found")
		return
	}

	sessionName := ""
	if issue.SessionID != "" {
		if session, found, err := h.sessions.GetSession(r.Context(), issue.SessionID); err == nil && found {
			sessionName = session.Name
		}
	}

	message := notify.IssueMessage(issue.Priority, issue.IssueType, issue.Hall, issue.Description, sessionName)
	writeJSON(w, http.StatusOK, notify.Build(req.Phone, message))
}

func (h *Handler) handleSpeakerHandoff(w http.ResponseWriter, r *http.Request, coordinator models.Coordinator, req handoffRequest) {
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, req.RequestID, http.StatusBadRequest, "invalid_request", "name is required for a speaker handoff")
		return
	}
	session, ok := h.ownedSession(w, r, req.SessionID, coordinator)
	if !ok {
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		if contact, found := h.builder.Resolve(req.Name); found {
			phone = contact.Phone
		}
	}

	now := h.clock()
	delay := 0
	startTime := session.StartTime
	if daySessions, _, err := h.fetchSessions(r, coordinator, session.Date); err == nil {
		delay = delayFor(daySessions, now)
		if delay > 0 {
			startTime = adjustedStart(session, delay)
		}
	}

	message := notify.SpeakerMessage(req.Name, coordinator.Hall, session.Name, startTime, delay)
	writeJSON(w, http.StatusOK, notify.Build(phone, message))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, coordinator)
}

type verifyPINRequest struct {
	RequestID string `json:"request_id"`
	PIN       string `json:"pin"`
}

func (h *Handler) handleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	coordinator, ok := requireCoordinator(w, r)
	if !ok {
		return
	}

	var req verifyPINRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.PIN == "" {
		writeError(w, req.RequestID, http.StatusBadRequest, "invalid_request", "pin is required")
		return
	}

	if err := h.coordinators.VerifyPIN(r.Context(), coordinator.CoordinatorID, req.PIN); err != nil {
		status, code, msg := mapError(err)
		writeError(w, req.RequestID, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func delayFor(sessions []models.Session, now time.Time) int {
	return schedule.CascadeDelay(schedule.CurrentSession(sessions, now), now)
}

func adjustedStart(session models.Session, delayMinutes int) string {
	return schedule.AdjustTime(session.StartTime, delayMinutes)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, "", http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", "session not found"
	case errors.Is(err, store.ErrIssueNotFound):
		return http.StatusNotFound, "issue_not_found", "issue not found"
	case errors.Is(err, store.ErrCoordinatorNotFound):
		return http.StatusNotFound, "coordinator_not_found", "coordinator not found"
	case errors.Is(err, store.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status", "status not in the allowed set"
	case errors.Is(err, store.ErrUnknownChecklistKey):
		return http.StatusBadRequest, "unknown_checklist_key", "unknown checklist key"
	case errors.Is(err, store.ErrInvalidIssueType):
		return http.StatusBadRequest, "invalid_issue_type", "issue type not in the catalog"
	case errors.Is(err, store.ErrStatusRegression):
		return http.StatusConflict, "status_regression", "issue status cannot move backwards"
	case errors.Is(err, store.ErrInvalidPIN):
		return http.StatusForbidden, "invalid_pin", "pin verification failed"
	case errors.Is(err, store.ErrAccessDenied):
		return http.StatusForbidden, "access_denied", "access denied"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
