package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const sessionColumns = `
	session_id, event_id, name, session_type, session_date, start_time, end_time,
	hall, track, description,
	speakers, speakers_text, moderators, moderators_text, chairpersons, chairpersons_text,
	coordinator_status, coordinator_checklist, coordinator_notes, audience_count, updated_at
`

func (s *Store) ListSessions(ctx context.Context, eventID, hall, date string) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE event_id = $1 AND hall = $2
	`
	args := []interface{}{eventID, hall}
	if date != "" {
		query += " AND session_date = $3"
		args = append(args, date)
	}
	query += " ORDER BY session_date ASC, start_time ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (models.Session, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE session_id = $1
	`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, false, nil
		}
		return models.Session{}, false, err
	}
	return session, true, nil
}

// UpdateCoordinator writes only the fields present in the input, each as its
// own column, and records an outbox event in the same transaction so other
// viewers of the hall get invalidated.
func (s *Store) UpdateCoordinator(ctx context.Context, input store.UpdateCoordinatorInput) (models.Session, error) {
	if input.Status != nil && !store.ValidStatus(*input.Status) {
		return models.Session{}, store.ErrInvalidStatus
	}

	sets := []string{}
	args := []interface{}{}
	place := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = $"+strconv.Itoa(place))
		args = append(args, value)
		place++
	}

	if input.Status != nil {
		appendSet("coordinator_status", *input.Status)
	}
	if input.Checklist != nil {
		checklistJSON, err := json.Marshal(input.Checklist)
		if err != nil {
			return models.Session{}, err
		}
		appendSet("coordinator_checklist", checklistJSON)
	}
	if input.Notes != nil {
		appendSet("coordinator_notes", *input.Notes)
	}
	if input.AudienceCount != nil {
		appendSet("audience_count", *input.AudienceCount)
	}

	updatedAt := input.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	appendSet("updated_at", updatedAt)

	args = append(args, input.SessionID)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Session{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		UPDATE sessions
		SET `+strings.Join(sets, ", ")+`
		WHERE session_id = $`+strconv.Itoa(place)+`
		RETURNING `+sessionColumns,
		args...)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrSessionNotFound
		}
		return models.Session{}, err
	}

	if err = insertOutboxEvent(ctx, tx, "session_updated", session); err != nil {
		return models.Session{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// SetChecklistItem patches a single checklist key with a jsonb merge so two
// coordinators toggling different flags cannot overwrite each other's map.
func (s *Store) SetChecklistItem(ctx context.Context, sessionID, key string, value bool) (models.Session, error) {
	if !store.ValidChecklistKey(key) {
		return models.Session{}, store.ErrUnknownChecklistKey
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Session{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		UPDATE sessions
		SET coordinator_checklist = jsonb_set(COALESCE(coordinator_checklist, '{}'::jsonb), ARRAY[$2::text], to_jsonb($3::boolean), true),
		    updated_at = $4
		WHERE session_id = $1
		RETURNING `+sessionColumns,
		sessionID, key, value, time.Now().UTC())

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrSessionNotFound
		}
		return models.Session{}, err
	}

	if err = insertOutboxEvent(ctx, tx, "session_updated", session); err != nil {
		return models.Session{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *Store) ListOutboxEvents(ctx context.Context, after time.Time, limit int) ([]store.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT event_id, type, payload_json, created_at
		FROM outbox_events
	`
	args := []interface{}{}
	if !after.IsZero() {
		query += " WHERE created_at > $1 ORDER BY created_at ASC LIMIT $2"
		args = append(args, after, limit)
	} else {
		query += " ORDER BY created_at ASC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.OutboxEvent
	for rows.Next() {
		var event store.OutboxEvent
		if err := rows.Scan(&event.EventID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) ListRegistrants(ctx context.Context, eventID string) ([]models.Registrant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT registrant_id, event_id, name, first_name, last_name, email, phone, alt_phone, whatsapp, city
		FROM registrants
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registrants []models.Registrant
	for rows.Next() {
		var r models.Registrant
		var firstName, lastName, email, phone, alt, wa, city *string
		if err := rows.Scan(&r.RegistrantID, &r.EventID, &r.Name, &firstName, &lastName, &email, &phone, &alt, &wa, &city); err != nil {
			return nil, err
		}
		r.FirstName = deref(firstName)
		r.LastName = deref(lastName)
		r.Email = deref(email)
		r.Phone = deref(phone)
		r.AltPhone = deref(alt)
		r.WhatsApp = deref(wa)
		r.City = deref(city)
		registrants = append(registrants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return registrants, nil
}

// GetCoordinator resolves an opaque access token by its sha256 hash. Unknown
// tokens surface ErrAccessDenied: the caller gets a terminal denied state,
// never a partial view.
func (s *Store) GetCoordinator(ctx context.Context, token string) (models.Coordinator, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT c.coordinator_id, c.event_id, e.name, c.hall, c.name, c.phone, c.email
		FROM hall_coordinators c
		JOIN events e ON e.event_id = c.event_id
		WHERE c.token_hash = $1 AND c.active
	`, hashToken(token))

	var (
		coordinator  models.Coordinator
		phone, email *string
	)
	err := row.Scan(&coordinator.CoordinatorID, &coordinator.EventID, &coordinator.EventName,
		&coordinator.Hall, &coordinator.Name, &phone, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Coordinator{}, store.ErrAccessDenied
		}
		return models.Coordinator{}, err
	}
	coordinator.Phone = deref(phone)
	coordinator.Email = deref(email)
	return coordinator, nil
}

// VerifyPIN checks the coordinator's PIN against its bcrypt hash. Used to
// confirm destructive actions such as cancelling a session.
func (s *Store) VerifyPIN(ctx context.Context, coordinatorID, pin string) error {
	var pinHash string
	err := s.pool.QueryRow(ctx, `
		SELECT pin_hash FROM hall_coordinators WHERE coordinator_id = $1 AND active
	`, coordinatorID).Scan(&pinHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrCoordinatorNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
		return store.ErrInvalidPIN
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, eventType string, session models.Session) error {
	payload := map[string]interface{}{
		"session_id": session.SessionID,
		"event_id":   session.EventID,
		"hall":       session.Hall,
		"date":       session.Date,
		"status":     session.Status,
		"updated_at": session.UpdatedAt,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (event_id, type, payload_json, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), eventType, payloadJSON, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		session                         models.Session
		sessionType, track, description *string
		speakers, speakersText          *string
		moderators, moderatorsText      *string
		chairpersons, chairpersonsText  *string
		status, notes                   *string
		checklistJSON                   []byte
		audience                        *int
	)
	err := row.Scan(
		&session.SessionID, &session.EventID, &session.Name, &sessionType,
		&session.Date, &session.StartTime, &session.EndTime,
		&session.Hall, &track, &description,
		&speakers, &speakersText, &moderators, &moderatorsText, &chairpersons, &chairpersonsText,
		&status, &checklistJSON, &notes, &audience, &session.UpdatedAt,
	)
	if err != nil {
		return models.Session{}, err
	}

	session.SessionType = deref(sessionType)
	session.Track = deref(track)
	session.Description = deref(description)
	session.Speakers = deref(speakers)
	session.SpeakersText = deref(speakersText)
	session.Moderators = deref(moderators)
	session.ModeratorsText = deref(moderatorsText)
	session.Chairpersons = deref(chairpersons)
	session.ChairpersonsText = deref(chairpersonsText)
	session.Status = deref(status)
	if session.Status == "" {
		session.Status = models.StatusScheduled
	}
	if audience != nil {
		session.AudienceCount = *audience
	}
	if len(checklistJSON) > 0 {
		checklist := map[string]bool{}
		if err := json.Unmarshal(checklistJSON, &checklist); err == nil {
			session.Checklist = checklist
		}
	}
	return session, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
