// Package schedule maintains the in-memory snapshot of the swim schedule
// and buckets it into facility-timezone days for the resolver.
package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gruberb/isthelclcpoolopen/internal/classify"
	"github.com/gruberb/isthelclcpoolopen/internal/closure"
	"github.com/gruberb/isthelclcpoolopen/internal/config"
	"github.com/gruberb/isthelclcpoolopen/internal/feed"
	appLog "github.com/gruberb/isthelclcpoolopen/internal/log"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
	"github.com/gruberb/isthelclcpoolopen/internal/status"
)

// DayWindow is an explicit pair of day boundaries in the facility timezone.
// Passing the window around (instead of comparing date strings) keeps
// timezone handling in one testable place.
type DayWindow struct {
	Start time.Time // inclusive
	End   time.Time // exclusive
}

// DayOf returns the window of the facility-timezone day containing t.
func DayOf(t time.Time, loc *time.Location) DayWindow {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether an event starting at t belongs to the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Store holds the latest filtered schedule snapshot. Reads and the periodic
// refresh may run concurrently; the snapshot is swapped atomically under
// the lock.
type Store struct {
	cfg     *config.Config
	fetcher *feed.Fetcher
	loc     *time.Location

	mu          sync.RWMutex
	events      []model.Event
	lastUpdated time.Time
}

// NewStore creates a schedule store for the configured facility feed.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		cfg:     cfg,
		fetcher: feed.NewFetcher(cfg.CacheDir),
		loc:     cfg.Location(),
	}
}

// Refresh fetches the feed, filters it to swim events, overlays configured
// maintenance closures, and swaps in the new snapshot. On fetch errors the
// previous snapshot stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	now := time.Now().In(s.loc)
	rangeStart := DayOf(now, s.loc).Start
	rangeEnd := rangeStart.AddDate(0, 0, s.cfg.HorizonDays)

	feedURL, err := feed.BuildURL(s.cfg.FeedURL, s.cfg.FacilityID, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	result, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return err
	}

	raw, err := feed.Decode(result.Body)
	if err != nil {
		return err
	}

	kept := make([]model.RawEvent, 0, len(raw))
	for _, r := range raw {
		if classify.IsSwimEvent(r) {
			kept = append(kept, r)
		}
	}

	events := feed.ParseTimes(kept, s.loc)
	events = append(events, closure.Expand(s.cfg.Closures, rangeStart, rangeEnd, s.loc)...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	s.mu.Lock()
	s.events = events
	s.lastUpdated = time.Now()
	s.mu.Unlock()

	appLog.Info("schedule refreshed",
		"fetched", len(raw),
		"kept", len(events),
		"from_cache", result.FromCache,
		"range_start", rangeStart.Format(time.RFC3339),
		"range_end", rangeEnd.Format(time.RFC3339),
	)
	return nil
}

// SetEvents replaces the snapshot directly. Intended for tests and for the
// single-shot CLI path.
func (s *Store) SetEvents(events []model.Event) {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	s.mu.Lock()
	s.events = sorted
	s.lastUpdated = time.Now()
	s.mu.Unlock()
}

// Events returns a copy of the current snapshot.
func (s *Store) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsForDay returns the snapshot's events whose start falls inside the
// facility-timezone day containing t.
func (s *Store) EventsForDay(t time.Time) []model.Event {
	window := DayOf(t, s.loc)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if window.Contains(ev.Start) {
			out = append(out, ev)
		}
	}
	return out
}

// Status resolves the availability of one feature at now, against the
// events of now's facility-timezone day.
func (s *Store) Status(feature model.Feature, now time.Time) model.FeatureStatus {
	return status.Resolve(s.EventsForDay(now), now.In(s.loc), feature, s.cfg.GapTolerance())
}

// LastUpdated reports when the snapshot was last swapped.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Location exposes the facility timezone.
func (s *Store) Location() *time.Location {
	return s.loc
}
