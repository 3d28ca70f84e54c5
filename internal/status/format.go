package status

import (
	"fmt"
	"time"

	"github.com/gruberb/isthelclcpoolopen/internal/model"
)

// FormatRemaining renders the time left until end, e.g. "2h 15m remaining".
func FormatRemaining(end, now time.Time) string {
	diff := end.Sub(now)
	if diff <= 0 {
		return "Closing now"
	}

	hours := int(diff / time.Hour)
	minutes := int(diff/time.Minute) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm remaining", hours, minutes)
	}
	return fmt.Sprintf("%dm remaining", minutes)
}

// FormatClock renders a wall-clock time compactly: "6pm", "6:30pm".
func FormatClock(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "am"
	if t.Hour() >= 12 {
		ampm = "pm"
	}
	if t.Minute() == 0 {
		return fmt.Sprintf("%d%s", hour, ampm)
	}
	return fmt.Sprintf("%d:%02d%s", hour, t.Minute(), ampm)
}

// restrictionPrefix names the access restriction for an active window.
func restrictionPrefix(c model.AccessCategory) string {
	switch c {
	case model.AccessMembersOnly:
		return "Members only"
	case model.AccessWomensOnly:
		return "Women only"
	case model.AccessSeniors60Plus:
		return "Seniors 60+"
	case model.AccessSensory:
		return "Sensory swim"
	default:
		return ""
	}
}

// gapSuffix annotates an upcoming window whose access is not general.
func gapSuffix(c model.AccessCategory) string {
	switch c {
	case model.AccessMembersOnly:
		return " (Members Only)"
	case model.AccessWomensOnly:
		return " (Women Only)"
	case model.AccessSeniors60Plus:
		return " (Seniors 60+)"
	case model.AccessSensory:
		return " (Sensory)"
	default:
		return ""
	}
}

// Text renders a FeatureStatus as the one-line message shown to patrons.
func Text(feature model.Feature, st model.FeatureStatus, now time.Time) string {
	switch st.Kind {
	case model.StatusActive:
		msg := FormatRemaining(st.EndTime, now)
		if prefix := restrictionPrefix(st.Category); st.Special && prefix != "" {
			return prefix + " - " + msg
		}
		return msg
	case model.StatusGap:
		return "Opens at " + FormatClock(st.NextStart) + gapSuffix(st.Category)
	default:
		if feature == model.FeatureLanes {
			return "No more lane swimming today"
		}
		return "No more kids swimming today"
	}
}
