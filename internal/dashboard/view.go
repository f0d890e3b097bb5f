// Package dashboard builds the live hall view: classification, cascade
// delay, parsed mentions, and resolved contacts, recomputed from the latest
// snapshots on every render pass. Everything here is read-only over its
// inputs; writes go through the store.
package dashboard

import (
	"sync"
	"time"

	"halldesk/hall-service/internal/mention"
	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/roster"
	"halldesk/hall-service/internal/schedule"
)

type SessionView struct {
	models.Session
	TimeState        schedule.TimeState `json:"time_state"`
	RemainingMinutes int                `json:"remaining_minutes,omitempty"`
	AdjustedStart    string             `json:"adjusted_start,omitempty"`
	AdjustedEnd      string             `json:"adjusted_end,omitempty"`
	Mentions         []mention.Mention  `json:"mentions,omitempty"`
}

type View struct {
	Hall         string        `json:"hall"`
	Date         string        `json:"date"`
	GeneratedAt  time.Time     `json:"generated_at"`
	CascadeDelay int           `json:"cascade_delay_minutes"`
	Current      *string       `json:"current_session_id,omitempty"`
	Sessions     []SessionView `json:"sessions"`
}

// Builder owns the derivation machinery shared across render passes: the
// parser, the memoizing contact resolver, and a parse cache keyed by session
// id + updated-at so an unchanged session is not re-parsed every tick.
type Builder struct {
	parser   *mention.Parser
	resolver *roster.Resolver

	mu         sync.Mutex
	parseCache map[string][]mention.Mention
}

func NewBuilder(vocab mention.Vocabulary) *Builder {
	return &Builder{
		parser:     mention.NewParser(vocab),
		resolver:   roster.NewResolver(),
		parseCache: make(map[string][]mention.Mention),
	}
}

// SetRoster swaps in a fresh roster snapshot for contact resolution.
func (b *Builder) SetRoster(entries []models.Registrant, version string) {
	b.resolver.SetRoster(entries, version)
}

// Resolve exposes the underlying contact resolver for direct lookups.
func (b *Builder) Resolve(name string) (roster.Contact, bool) {
	return b.resolver.Resolve(name)
}

// Build derives the full hall view from a session snapshot and the wall
// clock. Pure over its inputs apart from cache warm-up.
func (b *Builder) Build(hall, date string, sessions []models.Session, now time.Time) View {
	view := View{
		Hall:        hall,
		Date:        date,
		GeneratedAt: now,
		Sessions:    make([]SessionView, 0, len(sessions)),
	}

	current := schedule.CurrentSession(sessions, now)
	view.CascadeDelay = schedule.CascadeDelay(current, now)
	if current != nil {
		id := current.SessionID
		view.Current = &id
	}

	fresh := make(map[string][]mention.Mention, len(sessions))
	for _, session := range sessions {
		sv := SessionView{
			Session:   session,
			TimeState: schedule.Classify(session, now),
		}

		// The session anchoring the live schedule renders as current even
		// in overtime, with a negative remaining counter.
		if current != nil && session.SessionID == current.SessionID {
			sv.TimeState = schedule.StateCurrent
		}

		switch sv.TimeState {
		case schedule.StateCurrent:
			sv.RemainingMinutes = schedule.RemainingMinutes(session, now)
		case schedule.StateUpcoming, schedule.StateStartingSoon:
			if view.CascadeDelay > 0 {
				sv.AdjustedStart = schedule.AdjustTime(session.StartTime, view.CascadeDelay)
				sv.AdjustedEnd = schedule.AdjustTime(session.EndTime, view.CascadeDelay)
			}
		}

		mentions := b.mentionsFor(session, fresh)
		sv.Mentions = b.resolveContacts(mentions)
		view.Sessions = append(view.Sessions, sv)
	}

	b.mu.Lock()
	b.parseCache = fresh
	b.mu.Unlock()

	return view
}

func (b *Builder) mentionsFor(session models.Session, fresh map[string][]mention.Mention) []mention.Mention {
	key := parseKey(session)

	b.mu.Lock()
	cached, ok := b.parseCache[key]
	b.mu.Unlock()
	if !ok {
		cached = b.parser.Parse(session)
	}
	fresh[key] = cached
	return cached
}

func parseKey(session models.Session) string {
	key := session.SessionID
	if session.UpdatedAt != nil {
		key += "@" + session.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return key
}

// resolveContacts fills missing phones and emails from the roster. Contact
// already embedded in the session text wins over a roster lookup.
func (b *Builder) resolveContacts(mentions []mention.Mention) []mention.Mention {
	if len(mentions) == 0 {
		return nil
	}
	out := make([]mention.Mention, len(mentions))
	copy(out, mentions)
	for i := range out {
		if out[i].Phone != "" {
			continue
		}
		contact, ok := b.resolver.Resolve(out[i].Name)
		if !ok {
			continue
		}
		out[i].Phone = contact.Phone
		if out[i].Email == "" {
			out[i].Email = contact.Email
		}
	}
	return out
}
