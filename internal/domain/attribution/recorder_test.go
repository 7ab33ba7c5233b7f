package attribution

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digifyhq/digify-go/pkg/digify"
)

var recordBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func directTouch(path string, at time.Time) digify.Touch {
	return digify.Touch{
		Timestamp:   at,
		LandingPath: path,
		Source:      "(direct)",
		Medium:      "(none)",
		Channel:     digify.ChannelDirect,
	}
}

func TestRecordAppendsTouch(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})

	require.Len(t, visitor.Touches, 1)
	assert.Equal(t, 1, visitor.Rollups.DistinctPages)
	assert.False(t, visitor.Rollups.MultiPage)
	assert.Equal(t, recordBase, visitor.Rollups.LastTouch)
	assert.Zero(t, visitor.Rollups.EngagedSeconds) // first touch has no prior timestamp
}

func TestRecordDedupsRedirectArtifact(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})
	visitor = Record(visitor, directTouch("/", recordBase.Add(1500*time.Millisecond)), Limits{})

	assert.Len(t, visitor.Touches, 1)
}

func TestRecordKeepsDistinctTouchWithinWindow(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})
	visitor = Record(visitor, directTouch("/pricing", recordBase.Add(time.Second)), Limits{})

	assert.Len(t, visitor.Touches, 2)
	assert.True(t, visitor.Rollups.MultiPage)
	assert.Equal(t, 2, visitor.Rollups.DistinctPages)
}

func TestRecordKeepsSameKeyOutsideWindow(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})
	visitor = Record(visitor, directTouch("/", recordBase.Add(10*time.Second)), Limits{})

	assert.Len(t, visitor.Touches, 2)
	assert.Equal(t, 1, visitor.Rollups.DistinctPages)
	assert.False(t, visitor.Rollups.MultiPage)
}

func TestRecordBoundedHistory(t *testing.T) {
	limits := DefaultLimits()
	visitor := digify.Visitor{VisitorID: "v1"}

	total := limits.MaxTouches + 5
	for i := 0; i < total; i++ {
		path := fmt.Sprintf("/page-%d", i)
		visitor = Record(visitor, directTouch(path, recordBase.Add(time.Duration(i)*time.Minute)), Limits{})
	}

	require.Len(t, visitor.Touches, limits.MaxTouches)
	// the oldest were evicted first: the survivors are the most recent N
	assert.Equal(t, fmt.Sprintf("/page-%d", total-limits.MaxTouches), visitor.Touches[0].LandingPath)
	assert.Equal(t, fmt.Sprintf("/page-%d", total-1), visitor.Touches[limits.MaxTouches-1].LandingPath)
	assert.Equal(t, limits.MaxTouches, visitor.Rollups.DistinctPages)
}

func TestRecordEngagedTimeStepClamp(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})
	// 50 minutes later: only the 30-minute step cap may be credited
	visitor = Record(visitor, directTouch("/pricing", recordBase.Add(50*time.Minute)), Limits{})

	assert.Equal(t, 1800, visitor.Rollups.EngagedSeconds)
}

func TestRecordEngagedTimeIgnoresClockSkew(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = Record(visitor, directTouch("/", recordBase), Limits{})
	visitor = Record(visitor, directTouch("/pricing", recordBase.Add(-5*time.Minute)), Limits{})

	assert.Zero(t, visitor.Rollups.EngagedSeconds)
}

func TestRecordEngagedTimeLifetimeCeiling(t *testing.T) {
	limits := Limits{LifetimeCap: time.Hour}
	visitor := digify.Visitor{VisitorID: "v1"}

	at := recordBase
	for i := 0; i < 5; i++ {
		visitor = Record(visitor, directTouch(fmt.Sprintf("/p%d", i), at), limits)
		at = at.Add(25 * time.Minute)
	}

	assert.Equal(t, 3600, visitor.Rollups.EngagedSeconds)
}

func TestRecordDoesNotMutateInput(t *testing.T) {
	original := digify.Visitor{VisitorID: "v1"}
	original = Record(original, directTouch("/", recordBase), Limits{})

	snapshot := original.Touches[0]
	_ = Record(original, directTouch("/pricing", recordBase.Add(time.Minute)), Limits{})

	assert.Equal(t, snapshot, original.Touches[0])
	assert.Len(t, original.Touches, 1)
}

func TestRecordPageViewAccumulatesEngagement(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = RecordPageView(visitor, "s1", "/", recordBase, Limits{})
	visitor = RecordPageView(visitor, "s1", "/pricing", recordBase.Add(90*time.Second), Limits{})

	require.NotNil(t, visitor.Visit)
	assert.Equal(t, 90, visitor.Rollups.EngagedSeconds)
	assert.Equal(t, []string{"/", "/pricing"}, visitor.Visit.Pages)
}

func TestRecordPageViewStepClamp(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = RecordPageView(visitor, "s1", "/", recordBase, Limits{})
	// tab left in the background for two hours
	visitor = RecordPageView(visitor, "s1", "/blog", recordBase.Add(2*time.Hour), Limits{})

	assert.Equal(t, 1800, visitor.Rollups.EngagedSeconds)
}

func TestRecordPageViewSessionRotationResetsVisit(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = RecordPageView(visitor, "s1", "/", recordBase, Limits{})
	visitor = RecordPageView(visitor, "s1", "/a", recordBase.Add(time.Minute), Limits{})
	require.Equal(t, []string{"/", "/a"}, visitor.Visit.Pages)

	visitor = RecordPageView(visitor, "s2", "/b", recordBase.Add(2*time.Minute), Limits{})

	assert.Equal(t, "s2", visitor.Visit.SessionID)
	assert.Equal(t, []string{"/b"}, visitor.Visit.Pages)
	// engaged seconds survive rotation; only the visit timers reset
	assert.Equal(t, 60, visitor.Rollups.EngagedSeconds)
}

func TestRecordPageViewCollapsesConsecutiveDuplicates(t *testing.T) {
	visitor := digify.Visitor{VisitorID: "v1"}

	visitor = RecordPageView(visitor, "s1", "/", recordBase, Limits{})
	visitor = RecordPageView(visitor, "s1", "/", recordBase.Add(time.Second), Limits{})
	visitor = RecordPageView(visitor, "s1", "/a", recordBase.Add(2*time.Second), Limits{})
	visitor = RecordPageView(visitor, "s1", "/", recordBase.Add(3*time.Second), Limits{})

	assert.Equal(t, []string{"/", "/a", "/"}, visitor.Visit.Pages)
}

func TestRecordPageViewPageCap(t *testing.T) {
	limits := Limits{VisitPageCap: 3}
	visitor := digify.Visitor{VisitorID: "v1"}

	for i := 0; i < 5; i++ {
		visitor = RecordPageView(visitor, "s1", fmt.Sprintf("/p%d", i), recordBase.Add(time.Duration(i)*time.Second), limits)
	}

	assert.Equal(t, []string{"/p2", "/p3", "/p4"}, visitor.Visit.Pages)
}
