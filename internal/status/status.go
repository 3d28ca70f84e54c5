// Package status computes current and upcoming availability windows for a
// pool feature from one day's worth of classified events.
package status

import (
	"sort"
	"time"

	"github.com/gruberb/isthelclcpoolopen/internal/classify"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
)

// DefaultGapTolerance is the scheduling slack bridged when merging
// back-to-back events into one continuous window. Patrons perceive "ends at
// 3, next starts at 3:01" as uninterrupted, so small gaps count as
// continuity. The boundary is inclusive: a gap of exactly the tolerance
// still merges.
const DefaultGapTolerance = 30 * time.Minute

// Resolve answers whether the given feature is available at now, and if so
// until when, based on the events of the day containing now.
//
// Callers are responsible for bucketing events to the query day (see
// internal/schedule); Resolve re-sorts defensively but does no timezone
// work of its own. An event's interval is [Start, End): an event ending
// exactly at now is already over. Events with Start >= End never match.
//
// A members-only or restricted-access window is reported exactly as wide as
// the single event that grants it and is never merged with its neighbors;
// merging would misreport who may use the facility during the merged tail.
func Resolve(events []model.Event, now time.Time, feature model.Feature, gapTolerance time.Duration) model.FeatureStatus {
	if gapTolerance <= 0 {
		gapTolerance = DefaultGapTolerance
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	// Find the active event carrying the feature.
	var active *model.Event
	var activeAnalysis model.Analysis
	for i := range sorted {
		ev := sorted[i]
		if !ev.Start.After(now) && ev.End.After(now) {
			a := analysisOf(ev)
			if a.HasFeature(feature) {
				active = &sorted[i]
				activeAnalysis = a
				break
			}
		}
	}

	if active != nil {
		if activeAnalysis.Special() {
			return model.FeatureStatus{
				Kind:     model.StatusActive,
				EndTime:  active.End,
				Category: activeAnalysis.Category,
				Special:  true,
			}
		}

		// Extend across adjacent or near-adjacent events that keep granting
		// the feature to the general public.
		end := active.End
		for _, ev := range sorted {
			if !ev.Start.After(now) || !ev.Start.After(active.Start) {
				continue
			}
			if !ev.Start.Before(ev.End) {
				continue
			}
			if ev.Start.Sub(end) > gapTolerance {
				break
			}
			a := analysisOf(ev)
			if !a.HasFeature(feature) {
				break
			}
			if a.Special() {
				// A regular window must never silently run into a
				// restricted-access one.
				break
			}
			if ev.End.After(end) {
				end = ev.End
			}
		}

		return model.FeatureStatus{
			Kind:     model.StatusActive,
			EndTime:  end,
			Category: activeAnalysis.Category,
		}
	}

	// Nothing active: report the next qualifying event, whatever its access
	// category. The category is informational only.
	for _, ev := range sorted {
		if !ev.Start.After(now) || !ev.Start.Before(ev.End) {
			continue
		}
		a := analysisOf(ev)
		if a.HasFeature(feature) {
			return model.FeatureStatus{
				Kind:      model.StatusGap,
				NextStart: ev.Start,
				Category:  a.Category,
				Special:   a.Special(),
			}
		}
	}

	return model.FeatureStatus{Kind: model.StatusExhausted}
}

func analysisOf(ev model.Event) model.Analysis {
	return classify.Analyze(model.RawEvent{ID: ev.ID, Title: ev.Title})
}
