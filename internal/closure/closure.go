// Package closure expands configured recurring maintenance closures into
// synthetic schedule blocks. The blocks carry the reserved "Busy" title so
// they occupy schedule time: availability merging can never bridge a
// maintenance window, even when the upstream feed omits it.
package closure

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/gruberb/isthelclcpoolopen/internal/config"
	appLog "github.com/gruberb/isthelclcpoolopen/internal/log"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
	"github.com/gruberb/isthelclcpoolopen/internal/rules"
)

// Safety cap per rule so a malformed RRULE cannot flood the schedule.
const maxOccurrencesPerRule = 1000

const startLayout = "2006-01-02T15:04"

// Expand produces closure blocks for all configured rules that fall within
// [rangeStart, rangeEnd). Invalid rules are logged and skipped; the rest
// still expand.
func Expand(closures []config.ClosureConfig, rangeStart, rangeEnd time.Time, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}

	out := make([]model.Event, 0)
	for i, c := range closures {
		events, err := expandRule(i, c, rangeStart, rangeEnd, loc)
		if err != nil {
			appLog.Error("closure rule skipped", err, "index", i, "rrule", c.RRule)
			continue
		}
		out = append(out, events...)
	}
	return out
}

func expandRule(idx int, c config.ClosureConfig, rangeStart, rangeEnd time.Time, loc *time.Location) ([]model.Event, error) {
	if c.DurationMinutes <= 0 {
		return nil, fmt.Errorf("closure duration must be positive, got %d", c.DurationMinutes)
	}

	first, err := time.ParseInLocation(startLayout, c.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid closure start %q: %w", c.Start, err)
	}

	title := c.Title
	if title == "" {
		title = rules.BusyTitle
	}
	dur := time.Duration(c.DurationMinutes) * time.Minute

	// One-off closure.
	if c.RRule == "" {
		end := first.Add(dur)
		if end.Before(rangeStart) || first.After(rangeEnd) {
			return nil, nil
		}
		return []model.Event{makeBlock(idx, title, first, dur)}, nil
	}

	r, err := rrule.StrToRRule(c.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", c.RRule, err)
	}
	r.DTStart(first)

	var set rrule.Set
	set.RRule(r)

	starts := set.Between(rangeStart.In(loc), rangeEnd.In(loc), true)
	if len(starts) > maxOccurrencesPerRule {
		appLog.Error("closure rule truncated", fmt.Errorf("max occurrences reached"),
			"index", idx, "cap", maxOccurrencesPerRule)
		starts = starts[:maxOccurrencesPerRule]
	}

	events := make([]model.Event, 0, len(starts))
	for _, start := range starts {
		events = append(events, makeBlock(idx, title, start.In(loc), dur))
	}
	return events, nil
}

func makeBlock(idx int, title string, start time.Time, dur time.Duration) model.Event {
	return model.Event{
		ID:    fmt.Sprintf("closure-%d-%s", idx, start.Format(time.RFC3339)),
		Title: title,
		Start: start,
		End:   start.Add(dur),
	}
}
