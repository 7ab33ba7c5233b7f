package attribution

import (
	"time"

	"github.com/digifyhq/digify-go/pkg/digify"
)

// Limits bound the touch history and the engagement counters. Zero values
// are replaced with the defaults, which mirror the shipped configuration.
type Limits struct {
	MaxTouches   int
	DedupWindow  time.Duration
	StepCap      time.Duration
	LifetimeCap  time.Duration
	VisitPageCap int
}

// DefaultLimits returns the production bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxTouches:   10,
		DedupWindow:  2 * time.Second,
		StepCap:      30 * time.Minute,
		LifetimeCap:  24 * time.Hour,
		VisitPageCap: 20,
	}
}

func (l Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if l.MaxTouches <= 0 {
		l.MaxTouches = defaults.MaxTouches
	}
	if l.DedupWindow <= 0 {
		l.DedupWindow = defaults.DedupWindow
	}
	if l.StepCap <= 0 {
		l.StepCap = defaults.StepCap
	}
	if l.LifetimeCap <= 0 {
		l.LifetimeCap = defaults.LifetimeCap
	}
	if l.VisitPageCap <= 0 {
		l.VisitPageCap = defaults.VisitPageCap
	}
	return l
}

// dedupKey identifies near-identical touches. Two touches with the same key
// landing within the dedup window are redirect artifacts, not two visits.
type dedupKey struct {
	landingPath string
	source      string
	medium      string
	channel     string
}

func keyOf(t digify.Touch) dedupKey {
	return dedupKey{
		landingPath: t.LandingPath,
		source:      t.Source,
		medium:      t.Medium,
		channel:     t.Channel,
	}
}

// Record appends a classified touch to the visitor's history and recomputes
// the rollups. The incoming touch is discarded when it duplicates the most
// recent touch within the dedup window. History is bounded: the oldest
// touches are evicted first.
func Record(visitor digify.Visitor, touch digify.Touch, limits Limits) digify.Visitor {
	limits = limits.withDefaults()

	if last := visitor.LastTouch(); last != nil {
		if keyOf(*last) == keyOf(touch) && absDelta(touch.Timestamp, last.Timestamp) <= limits.DedupWindow {
			return visitor
		}
	}

	previousActivity := lastActivity(visitor)

	touches := make([]digify.Touch, len(visitor.Touches), len(visitor.Touches)+1)
	copy(touches, visitor.Touches)
	touches = append(touches, touch)
	if excess := len(touches) - limits.MaxTouches; excess > 0 {
		touches = touches[excess:]
	}
	visitor.Touches = touches

	if !previousActivity.IsZero() {
		visitor.Rollups.EngagedSeconds = addEngaged(
			visitor.Rollups.EngagedSeconds,
			touch.Timestamp.Sub(previousActivity),
			limits,
		)
	}
	visitor.Rollups.LastTouch = touch.Timestamp
	visitor.Rollups.DistinctPages = countDistinctPages(visitor.Touches)
	visitor.Rollups.MultiPage = visitor.Rollups.DistinctPages > 1

	return visitor
}

// RecordPageView folds a client-reported route change into the visitor's
// engagement state. The visit scratchpad is bound to the session id and
// resets when the session rotates; engaged time accumulates with the same
// step clamp and lifetime ceiling as touch recording.
func RecordPageView(visitor digify.Visitor, sessionID, pathname string, now time.Time, limits Limits) digify.Visitor {
	limits = limits.withDefaults()

	if visitor.Visit == nil || visitor.Visit.SessionID != sessionID {
		visitor.Visit = &digify.VisitState{SessionID: sessionID}
	} else {
		// copy-on-write so callers holding the old record are unaffected
		visit := *visitor.Visit
		visit.Pages = append([]string(nil), visit.Pages...)
		visitor.Visit = &visit
	}

	if ref := lastActivity(visitor); !ref.IsZero() {
		visitor.Rollups.EngagedSeconds = addEngaged(
			visitor.Rollups.EngagedSeconds,
			now.Sub(ref),
			limits,
		)
	}
	visitor.Visit.LastSeen = now

	pages := visitor.Visit.Pages
	if len(pages) == 0 || pages[len(pages)-1] != pathname {
		pages = append(pages, pathname)
		if len(pages) > limits.VisitPageCap {
			pages = pages[len(pages)-limits.VisitPageCap:]
		}
	}
	visitor.Visit.Pages = pages

	return visitor
}

// addEngaged applies the per-step clamp and the lifetime ceiling. Negative
// deltas (clock skew, out-of-order reports) add nothing; engaged time only
// increases.
func addEngaged(current int, delta time.Duration, limits Limits) int {
	if delta < 0 {
		delta = 0
	}
	if delta > limits.StepCap {
		delta = limits.StepCap
	}

	total := current + int(delta/time.Second)
	if ceiling := int(limits.LifetimeCap / time.Second); total > ceiling {
		total = ceiling
	}
	return total
}

// lastActivity is the single engagement reference: both touch recording and
// page-view reporting advance it, so overlapping windows are never counted
// twice.
func lastActivity(v digify.Visitor) time.Time {
	last := v.Rollups.LastTouch
	if v.Visit != nil && v.Visit.LastSeen.After(last) {
		last = v.Visit.LastSeen
	}
	return last
}

func countDistinctPages(touches []digify.Touch) int {
	seen := make(map[string]struct{}, len(touches))
	for _, t := range touches {
		seen[t.LandingPath] = struct{}{}
	}
	return len(seen)
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
