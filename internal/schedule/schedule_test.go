package schedule

import (
	"testing"
	"time"

	"github.com/gruberb/isthelclcpoolopen/internal/config"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
)

var halifax = func() *time.Location {
	loc, err := time.LoadLocation("America/Halifax")
	if err != nil {
		panic(err)
	}
	return loc
}()

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Timezone = "America/Halifax"
	cfg.Normalize()
	return cfg
}

func TestDayOf(t *testing.T) {
	w := DayOf(time.Date(2025, 4, 29, 14, 30, 0, 0, halifax), halifax)

	wantStart := time.Date(2025, 4, 29, 0, 0, 0, 0, halifax)
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}
	if !w.End.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("End = %v, want next midnight", w.End)
	}

	// Inclusive start, exclusive end.
	if !w.Contains(w.Start) {
		t.Error("window must contain its own start")
	}
	if w.Contains(w.End) {
		t.Error("window must not contain its end")
	}
}

func TestDayOfConvertsForeignZones(t *testing.T) {
	// 2025-04-30 01:30 UTC is still 2025-04-29 in Halifax (UTC-3 in DST).
	utc := time.Date(2025, 4, 30, 1, 30, 0, 0, time.UTC)
	w := DayOf(utc, halifax)

	want := time.Date(2025, 4, 29, 0, 0, 0, 0, halifax)
	if !w.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", w.Start, want)
	}
}

func TestEventsForDay(t *testing.T) {
	store := NewStore(testConfig())

	day := func(d, h int) time.Time {
		return time.Date(2025, 4, d, h, 0, 0, 0, halifax)
	}

	store.SetEvents([]model.Event{
		{ID: "1", Title: "Lane Swim", Start: day(29, 6), End: day(29, 8)},
		{ID: "2", Title: "Lane Swim", Start: day(29, 18), End: day(29, 20)},
		{ID: "3", Title: "Lane Swim", Start: day(30, 6), End: day(30, 8)},
	})

	got := store.EventsForDay(day(29, 12))
	if len(got) != 2 {
		t.Fatalf("EventsForDay returned %d events, want 2", len(got))
	}
	for _, ev := range got {
		if ev.Start.Day() != 29 {
			t.Errorf("event %s from wrong day: %v", ev.ID, ev.Start)
		}
	}
}

func TestStoreStatus(t *testing.T) {
	store := NewStore(testConfig())

	day := func(h, m int) time.Time {
		return time.Date(2025, 4, 29, h, m, 0, 0, halifax)
	}

	tomorrow := time.Date(2025, 4, 30, 6, 0, 0, 0, halifax)
	store.SetEvents([]model.Event{
		{Title: "Members Swim", Start: day(7, 0), End: day(7, 30)},
		{Title: "Recreational Swim - 4 Lanes", Start: day(7, 30), End: day(9, 0)},
		{Title: "Lane Swim", Start: tomorrow, End: tomorrow.Add(2 * time.Hour)},
	})

	got := store.Status(model.FeatureLanes, day(7, 15))
	if got.Kind != model.StatusActive || !got.Special {
		t.Fatalf("Status = %+v, want active special", got)
	}
	if !got.EndTime.Equal(day(7, 30)) {
		t.Errorf("EndTime = %v, want %v (tomorrow's events must not leak in)", got.EndTime, day(7, 30))
	}

	after := store.Status(model.FeatureLanes, day(10, 0))
	if after.Kind != model.StatusExhausted {
		t.Errorf("Kind = %q, want exhausted (next lane event is tomorrow)", after.Kind)
	}
}
