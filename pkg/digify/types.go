// Package digify defines the wire contract for the digify attribution
// cookies: the record shapes carried in the visitor and session cookies and
// the codec that reads and writes them. Anything that consumes the cookies
// (middleware, API handlers, external Go clients) shares these types.
package digify

import "time"

// Channel values assigned by the classifier.
const (
	ChannelPaid     = "paid"
	ChannelUTM      = "utm"
	ChannelDirect   = "direct"
	ChannelOrganic  = "organic"
	ChannelReferral = "referral"
)

// Touch is one classified navigation event. Immutable once appended; it only
// leaves the record by being evicted from the front of the bounded history.
type Touch struct {
	Timestamp   time.Time         `json:"ts"`
	LandingPath string            `json:"path"`
	Source      string            `json:"source"`
	Medium      string            `json:"medium"`
	Channel     string            `json:"channel"`
	Campaign    string            `json:"campaign,omitempty"`
	Term        string            `json:"term,omitempty"`
	Content     string            `json:"content,omitempty"`
	ClickIDs    map[string]string `json:"click_ids,omitempty"`
}

// Rollups are aggregates recomputed whenever the touch history or the
// engagement timers change.
type Rollups struct {
	EngagedSeconds int       `json:"engaged_sec"`
	DistinctPages  int       `json:"pages"`
	MultiPage      bool      `json:"multi_page"`
	LastTouch      time.Time `json:"last_ts"`
}

// VisitState is the engagement scratchpad bound to the current session id.
// It resets whenever the session rotates so time-on-site never leaks across
// visits.
type VisitState struct {
	SessionID string    `json:"sid"`
	Pages     []string  `json:"page_paths,omitempty"`
	LastSeen  time.Time `json:"last_ts"`
}

// Visitor is the record carried in the visitor cookie. The cookie is the
// only copy; every request does a read-modify-write against it.
type Visitor struct {
	VisitorID string      `json:"visitor_id"`
	Touches   []Touch     `json:"touches,omitempty"`
	Rollups   Rollups     `json:"rollups"`
	Visit     *VisitState `json:"visit,omitempty"`
}

// Session is the record carried in the server-only session cookie.
type Session struct {
	ID         string    `json:"sid"`
	StartedAt  time.Time `json:"started_at"`
	LastSeenAt time.Time `json:"last_at"`
}

// LastTouch returns the most recent touch, or nil when the history is empty.
func (v *Visitor) LastTouch() *Touch {
	if len(v.Touches) == 0 {
		return nil
	}
	return &v.Touches[len(v.Touches)-1]
}
