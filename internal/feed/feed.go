// Package feed fetches and decodes the facility booking feed. The upstream
// delivers a flat JSON array of events with naive local timestamps; decoding
// interprets them in the facility timezone and drops entries it cannot
// parse, keeping the rest.
package feed

import (
	"encoding/json"
	"strings"
	"time"

	appLog "github.com/gruberb/isthelclcpoolopen/internal/log"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
)

// naiveLayouts are the timestamp shapes the booking system has been seen to
// emit. No offset is ever present.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Decode parses a feed payload into raw events. A malformed payload is an
// error; malformed entries inside a well-formed payload are not (they are
// logged and skipped later by ParseTimes).
func Decode(body []byte) ([]model.RawEvent, error) {
	var events []model.RawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ParseTimes converts raw events into timezone-normalized events in loc.
// Events with unparseable or missing timestamps are logged and dropped;
// classification and resolution never see them.
func ParseTimes(raw []model.RawEvent, loc *time.Location) []model.Event {
	out := make([]model.Event, 0, len(raw))
	for _, r := range raw {
		start, err := parseNaive(r.Start, loc)
		if err != nil {
			appLog.Error("feed event has invalid start, dropping", err, "id", r.ID, "title", r.Title)
			continue
		}
		end, err := parseNaive(r.End, loc)
		if err != nil {
			appLog.Error("feed event has invalid end, dropping", err, "id", r.ID, "title", r.Title)
			continue
		}
		out = append(out, model.Event{
			ID:    r.ID,
			Title: r.Title,
			Start: start,
			End:   end,
		})
	}
	return out
}

func parseNaive(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	var lastErr error
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
