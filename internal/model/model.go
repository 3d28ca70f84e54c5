package model

import "time"

// Feature is one of the facility capabilities tracked by the resolver.
type Feature string

const (
	FeatureLanes Feature = "lanes"
	FeatureKids  Feature = "kids"
)

// AccessCategory classifies who may use the pool during an event.
type AccessCategory string

const (
	AccessRegular       AccessCategory = "regular"
	AccessMembersOnly   AccessCategory = "members"
	AccessWomensOnly    AccessCategory = "womens"
	AccessSeniors60Plus AccessCategory = "seniors"
	AccessSensory       AccessCategory = "sensory"
	AccessPrivateClosed AccessCategory = "closed"
	AccessBusy          AccessCategory = "busy"
)

// Label returns the human-friendly name used by the display layer.
func (c AccessCategory) Label() string {
	switch c {
	case AccessMembersOnly:
		return "Members Only"
	case AccessWomensOnly:
		return "Women's Only (All Pools)"
	case AccessSeniors60Plus:
		return "Seniors 60+ Only"
	case AccessSensory:
		return "Sensory Swim"
	case AccessPrivateClosed:
		return "Private/Closed"
	case AccessBusy:
		return "Busy/Maintenance"
	default:
		return "Regular"
	}
}

// RawEvent is a schedule entry as delivered by the upstream booking feed.
// Start/End are naive local timestamps ("2006-01-02T15:04:05", no offset)
// and must be interpreted in the facility timezone.
type RawEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	AllDay          bool   `json:"allDay,omitempty"`
}

// Event is a schedule entry after timezone normalization. Start and End
// carry the facility location; the interval is [Start, End).
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// Analysis is the capability record the classifier derives from one event.
// LaneCount is 0 when the title carries no numeric lane count (meaning
// "unspecified", not "zero lanes"); it is reported even when Lanes is false.
type Analysis struct {
	Lanes            bool
	Kids             bool
	MembersOnly      bool
	RestrictedAccess bool
	Category         AccessCategory
	LaneCount        int
}

// Special reports whether the event must never be merged with neighboring
// regular events by the resolver.
func (a Analysis) Special() bool {
	return a.MembersOnly || a.RestrictedAccess
}

// HasFeature reports whether the analyzed event grants the given feature.
func (a Analysis) HasFeature(f Feature) bool {
	if f == FeatureLanes {
		return a.Lanes
	}
	return a.Kids
}

// StatusKind distinguishes the three resolver outcomes.
type StatusKind string

const (
	// StatusActive: the feature is available now, until EndTime.
	StatusActive StatusKind = "active"
	// StatusGap: not available now; the next qualifying event starts at NextStart.
	StatusGap StatusKind = "gap"
	// StatusExhausted: no further qualifying event today.
	StatusExhausted StatusKind = "exhausted"
)

// FeatureStatus is the resolver's answer for one feature at one instant.
// EndTime is set for StatusActive, NextStart for StatusGap. Category carries
// the access restriction of the active (or next) event so the display layer
// can prefix/suffix its message.
type FeatureStatus struct {
	Kind      StatusKind
	EndTime   time.Time
	NextStart time.Time
	Category  AccessCategory
	Special   bool
}
