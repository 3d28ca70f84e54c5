package status

import (
	"testing"
	"time"

	"github.com/gruberb/isthelclcpoolopen/internal/model"
)

var halifax = func() *time.Location {
	loc, err := time.LoadLocation("America/Halifax")
	if err != nil {
		panic(err)
	}
	return loc
}()

func at(hour, min int) time.Time {
	return time.Date(2025, 4, 29, hour, min, 0, 0, halifax)
}

func ev(title string, start, end time.Time) model.Event {
	return model.Event{Title: title, Start: start, End: end}
}

func TestResolveZeroGapContinuity(t *testing.T) {
	events := []model.Event{
		ev("Recreational Swim - 4 Lanes", at(14, 0), at(15, 0)),
		ev("Lane Swim", at(15, 0), at(16, 0)),
	}

	got := Resolve(events, at(14, 30), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusActive {
		t.Fatalf("Kind = %q, want active", got.Kind)
	}
	if !got.EndTime.Equal(at(16, 0)) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, at(16, 0))
	}
	if got.Special {
		t.Error("regular window reported as special")
	}
}

func TestResolveEndBoundaryIsExclusive(t *testing.T) {
	events := []model.Event{
		ev("Lane Swim", at(10, 0), at(11, 0)),
	}

	got := Resolve(events, at(11, 0), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind == model.StatusActive {
		t.Fatal("event ending exactly at now must not be active")
	}
	if got.Kind != model.StatusExhausted {
		t.Errorf("Kind = %q, want exhausted", got.Kind)
	}
}

func TestResolveSpecialEventWall(t *testing.T) {
	events := []model.Event{
		ev("Members Swim", at(7, 0), at(7, 30)),
		ev("Recreational Swim - 4 Lanes", at(7, 30), at(9, 0)),
	}

	got := Resolve(events, at(7, 15), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusActive {
		t.Fatalf("Kind = %q, want active", got.Kind)
	}
	if !got.Special {
		t.Error("members-only window not flagged special")
	}
	if !got.EndTime.Equal(at(7, 30)) {
		t.Errorf("EndTime = %v, want %v (must not extend into the regular event)", got.EndTime, at(7, 30))
	}
	if got.Category != model.AccessMembersOnly {
		t.Errorf("Category = %q, want members", got.Category)
	}
}

func TestResolveStopsBeforeSpecialEvent(t *testing.T) {
	// A regular window must never silently run into a restricted one, even
	// when the restricted event also grants the feature.
	events := []model.Event{
		ev("Recreational Swim - 4 Lanes", at(13, 0), at(14, 0)),
		ev("Senior Swim - 60+", at(14, 0), at(15, 30)),
	}

	got := Resolve(events, at(13, 30), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusActive {
		t.Fatalf("Kind = %q, want active", got.Kind)
	}
	if !got.EndTime.Equal(at(14, 0)) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, at(14, 0))
	}
	if got.Special {
		t.Error("regular window flagged special")
	}
}

func TestResolveStopsWhenFeatureDrops(t *testing.T) {
	events := []model.Event{
		ev("Recreational Swim - 4 Lanes", at(13, 0), at(14, 30)),
		ev("Public Swim - No Lanes", at(14, 30), at(16, 0)),
	}

	lanes := Resolve(events, at(13, 30), model.FeatureLanes, DefaultGapTolerance)
	if !lanes.EndTime.Equal(at(14, 30)) {
		t.Errorf("lanes EndTime = %v, want %v", lanes.EndTime, at(14, 30))
	}

	// The kids pool stays open across both events.
	kids := Resolve(events, at(13, 30), model.FeatureKids, DefaultGapTolerance)
	if !kids.EndTime.Equal(at(16, 0)) {
		t.Errorf("kids EndTime = %v, want %v", kids.EndTime, at(16, 0))
	}
}

func TestResolveGapToleranceBoundary(t *testing.T) {
	tol := 30 * time.Minute

	tests := []struct {
		name      string
		nextStart time.Time
		wantEnd   time.Time
	}{
		{name: "gap equal to tolerance merges", nextStart: at(15, 30), wantEnd: at(17, 0)},
		{name: "gap over tolerance does not merge", nextStart: at(15, 31), wantEnd: at(15, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []model.Event{
				ev("Lane Swim", at(14, 0), at(15, 0)),
				ev("Lane Swim", tt.nextStart, at(17, 0)),
			}
			got := Resolve(events, at(14, 30), model.FeatureLanes, tol)
			if got.Kind != model.StatusActive {
				t.Fatalf("Kind = %q, want active", got.Kind)
			}
			if !got.EndTime.Equal(tt.wantEnd) {
				t.Errorf("EndTime = %v, want %v", got.EndTime, tt.wantEnd)
			}
		})
	}
}

func TestResolveGapBeforeFirstEvent(t *testing.T) {
	events := []model.Event{
		ev("Busy", at(5, 0), at(6, 0)),
		ev("Lane Swim", at(6, 0), at(8, 0)),
	}

	got := Resolve(events, at(5, 30), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusGap {
		t.Fatalf("Kind = %q, want gap", got.Kind)
	}
	if !got.NextStart.Equal(at(6, 0)) {
		t.Errorf("NextStart = %v, want %v", got.NextStart, at(6, 0))
	}
}

func TestResolveGapReportsRestrictedNextEvent(t *testing.T) {
	events := []model.Event{
		ev("Members Swim", at(7, 0), at(7, 30)),
	}

	got := Resolve(events, at(6, 30), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusGap {
		t.Fatalf("Kind = %q, want gap", got.Kind)
	}
	if got.Category != model.AccessMembersOnly {
		t.Errorf("Category = %q, want members", got.Category)
	}
}

func TestResolveExhausted(t *testing.T) {
	events := []model.Event{
		ev("Lane Swim", at(6, 0), at(8, 0)),
		ev("Aquafit using Lap Pool", at(8, 0), at(9, 0)),
	}

	got := Resolve(events, at(9, 30), model.FeatureLanes, DefaultGapTolerance)

	if got.Kind != model.StatusExhausted {
		t.Errorf("Kind = %q, want exhausted", got.Kind)
	}
}

func TestResolveSkipsDegenerateEvents(t *testing.T) {
	events := []model.Event{
		// start >= end: must never be reported as active or next.
		ev("Lane Swim", at(12, 0), at(12, 0)),
		ev("Lane Swim", at(14, 0), at(13, 0)),
	}

	if got := Resolve(events, at(12, 0), model.FeatureLanes, DefaultGapTolerance); got.Kind != model.StatusExhausted {
		t.Errorf("Kind = %q, want exhausted", got.Kind)
	}
}

func TestResolveUnsortedInput(t *testing.T) {
	events := []model.Event{
		ev("Lane Swim", at(15, 0), at(16, 0)),
		ev("Recreational Swim - 4 Lanes", at(14, 0), at(15, 0)),
	}

	got := Resolve(events, at(14, 30), model.FeatureLanes, DefaultGapTolerance)

	if !got.EndTime.Equal(at(16, 0)) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, at(16, 0))
	}
}

func TestResolveBusyBlocksBridging(t *testing.T) {
	// The Busy block occupies schedule time, and the gap across it exceeds
	// nothing: the next lane event starts within tolerance of the previous
	// end, but bridging must still stop because Busy lacks the feature.
	events := []model.Event{
		ev("Lane Swim", at(9, 0), at(10, 0)),
		ev("Busy", at(10, 0), at(10, 15)),
		ev("Lane Swim", at(10, 15), at(11, 0)),
	}

	got := Resolve(events, at(9, 30), model.FeatureLanes, DefaultGapTolerance)

	if !got.EndTime.Equal(at(10, 0)) {
		t.Errorf("EndTime = %v, want %v", got.EndTime, at(10, 0))
	}
}
