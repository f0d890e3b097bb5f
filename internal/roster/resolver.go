package roster

import (
	"strings"
	"sync"

	"halldesk/hall-service/internal/models"
)

// Contact is the resolver's answer for one query name.
type Contact struct {
	RegistrantID string `json:"registrant_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Score        int    `json:"score"`
}

// Resolver matches free-text names against a roster snapshot. Lookups are
// memoized by normalized query; swapping in a new snapshot (a new roster
// version) resets the cache. Safe for concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	entries []models.Registrant
	version string
	cache   map[string]Contact
}

func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]Contact)}
}

// SetRoster replaces the roster snapshot. The version is any stable marker
// of snapshot identity (the fetch timestamp works); an unchanged version
// keeps the memo cache warm.
func (r *Resolver) SetRoster(entries []models.Registrant, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if version == r.version && r.version != "" {
		return
	}
	r.entries = entries
	r.version = version
	r.cache = make(map[string]Contact)
}

// Resolve returns the best-matching registrant's contact for the query name,
// or a zero Contact when no candidate clears the threshold.
func (r *Resolver) Resolve(query string) (Contact, bool) {
	key := Normalize(query)
	if key == "" {
		return Contact{}, false
	}

	r.mu.RLock()
	cached, ok := r.cache[key]
	entries := r.entries
	r.mu.RUnlock()
	if ok {
		return cached, cached.Phone != "" || cached.Email != ""
	}

	best := Match(query, entries)

	r.mu.Lock()
	r.cache[key] = best
	r.mu.Unlock()

	return best, best.Phone != "" || best.Email != ""
}

// Match scores the query against every registrant's name variants and
// returns the best candidate's contact if it clears the threshold. Pure
// function of (query, entries); Resolver.Resolve adds the memoization.
func Match(query string, entries []models.Registrant) Contact {
	bestScore := 0
	var best models.Registrant

	for _, entry := range entries {
		score := bestVariantScore(query, entry)
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}

	if bestScore < MatchThreshold {
		return Contact{}
	}
	return Contact{
		RegistrantID: best.RegistrantID,
		Name:         displayName(best),
		Phone:        bestPhone(best),
		Email:        best.Email,
		Score:        bestScore,
	}
}

func bestVariantScore(query string, entry models.Registrant) int {
	best := 0
	for _, variant := range nameVariants(entry) {
		if variant == "" {
			continue
		}
		if score := Score(query, variant); score > best {
			best = score
		}
	}
	return best
}

func nameVariants(entry models.Registrant) []string {
	variants := []string{entry.Name}
	if entry.FirstName != "" && entry.LastName != "" {
		variants = append(variants, entry.FirstName+" "+entry.LastName)
	}
	variants = append(variants, entry.FirstName, entry.LastName)
	return variants
}

// bestPhone picks the first usable contact number: phone, then the alternate
// phone, then the WhatsApp handle.
func bestPhone(entry models.Registrant) string {
	for _, candidate := range []string{entry.Phone, entry.AltPhone, entry.WhatsApp} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func displayName(entry models.Registrant) string {
	if entry.Name != "" {
		return entry.Name
	}
	return strings.TrimSpace(entry.FirstName + " " + entry.LastName)
}
