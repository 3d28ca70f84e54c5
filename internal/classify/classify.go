// Package classify turns raw schedule entries into capability records.
// Both entry points are pure and total: they never error and classify
// unrecognized titles to the least-permissive record.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gruberb/isthelclcpoolopen/internal/model"
	"github.com/gruberb/isthelclcpoolopen/internal/rules"
)

// laneCountRe captures an explicit numeric lane count such as "2 Lanes".
var laneCountRe = regexp.MustCompile(`(?i)(\d+)\s*lanes?`)

// IsSwimEvent reports whether a raw feed entry belongs in the swim schedule
// at all. Busy blocks always qualify; pool-colored events qualify unless a
// competing rink use or an excluded social booking, anything else needs a
// swim keyword.
func IsSwimEvent(ev model.RawEvent) bool {
	title := strings.TrimSpace(ev.Title)
	lower := strings.ToLower(title)

	if title == rules.BusyTitle {
		return true
	}

	if ev.BackgroundColor == rules.PoolColor {
		if containsAny(lower, rules.NonPoolKeywords) {
			return false
		}
		for _, excluded := range rules.ExcludedTitles {
			if strings.EqualFold(title, excluded) {
				return false
			}
		}
		return true
	}

	return containsAny(lower, rules.SwimKeywords)
}

// branch is one entry of the keyword cascade. Branches are evaluated in
// slice order and the first match wins; keep the order aligned with the
// tables in internal/rules.
type branch struct {
	match func(lower string) bool
	apply func(lower string, a *model.Analysis)
}

var cascade = []branch{
	{
		// Annotated members titles ("Members Swim / LAP POOL CLOSED") that
		// the exact-title table does not catch.
		match: matchAny(rules.MembersSwim),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = true
			a.Kids = true
			a.MembersOnly = true
			a.Category = model.AccessMembersOnly
		},
	},
	{
		match: matchAny(rules.RecreationalSwim),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = true
			a.Kids = true
		},
	},
	{
		match: matchAny(rules.LessonsAndLanes),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = true
			// The children's pool is closed during lessons unless the title
			// separately announces it open.
			a.Kids = containsAny(lower, rules.PlayPoolOpen)
		},
	},
	{
		match: matchAny(rules.PublicSwim),
		apply: func(lower string, a *model.Analysis) {
			a.Kids = true
			a.Lanes = !strings.Contains(lower, "no lanes")
		},
	},
	{
		match: matchAny(rules.LapPoolClass),
		apply: func(lower string, a *model.Analysis) {
			// The fitness class occupies the lap pool.
			a.Lanes = false
			a.Kids = strings.Contains(lower, "play") && strings.Contains(lower, "therapy")
		},
	},
	{
		match: matchAny(rules.ParentAndTot),
		apply: func(lower string, a *model.Analysis) {
			// Lesson format, not open recreational use of the play pool.
			a.Lanes = false
			a.Kids = false
		},
	},
	{
		match: matchAny(rules.SensorySwim),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = false
			a.Kids = true
			a.Category = model.AccessSensory
		},
	},
	{
		match: matchAny(rules.WomensOnly),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = true
			a.Kids = false
			a.RestrictedAccess = true
			a.Category = model.AccessWomensOnly
		},
	},
	{
		match: matchAny(rules.PrivateClosed),
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = false
			a.Kids = false
			a.Category = model.AccessPrivateClosed
		},
	},
	{
		match: func(string) bool { return true },
		apply: func(lower string, a *model.Analysis) {
			a.Lanes = containsAny(lower, rules.FallbackLanes)
			a.Kids = containsAny(lower, rules.FallbackKids)
		},
	},
}

// Analyze derives the capability record for one raw event.
//
// Precedence, in order: the reserved Busy title, exact-title specials, the
// keyword cascade (first match wins), then the unconditional lane-closure
// override. The override must stay last: facility titles combine a lane
// count with a closure note ("2 Lanes, LAP POOL CLOSED for ...") and the
// closure wins.
func Analyze(ev model.RawEvent) model.Analysis {
	title := strings.TrimSpace(ev.Title)
	lower := strings.ToLower(title)

	a := model.Analysis{Category: model.AccessRegular}
	a.LaneCount = laneCount(title)

	if title == rules.BusyTitle {
		a.Category = model.AccessBusy
		return a
	}

	if exact, ok := matchExactTitle(title); ok {
		a.Lanes = exact.Lanes
		a.Kids = exact.Kids
		a.MembersOnly = exact.MembersOnly
		a.RestrictedAccess = exact.RestrictedAccess
		a.Category = exact.Category
		return a
	}

	for _, b := range cascade {
		if b.match(lower) {
			b.apply(lower, &a)
			break
		}
	}

	if containsAny(lower, rules.LaneClosureNotes) {
		a.Lanes = false
	}

	return a
}

func matchExactTitle(title string) (rules.ExactTitle, bool) {
	for _, exact := range rules.ExactTitles {
		if strings.EqualFold(title, exact.Title) {
			return exact, true
		}
	}
	return rules.ExactTitle{}, false
}

// laneCount extracts the explicit numeric lane count, if any. The count is
// informational and reported independent of the lane decision.
func laneCount(title string) int {
	m := laneCountRe.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func matchAny(keywords []string) func(string) bool {
	return func(lower string) bool {
		return containsAny(lower, keywords)
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
