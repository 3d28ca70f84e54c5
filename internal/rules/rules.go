// Package rules holds the static phrase tables the classifier and the
// relevance filter evaluate. The tables are pure data; evaluation order
// lives in internal/classify so precedence stays explicit and testable.
package rules

import "github.com/gruberb/isthelclcpoolopen/internal/model"

// Reserved background colors used by the facility booking system as coarse
// category hints.
const (
	PoolColor = "#0000FF"
	BusyColor = "#00FF00"
)

// BusyTitle is the reserved maintenance title. Busy blocks must stay on the
// schedule so adjacent events are never merged across them.
const BusyTitle = "Busy"

// SwimKeywords marks an event as pool-related when it lacks the pool color.
var SwimKeywords = []string{
	"swim",
	"aqua",
	"pool",
	"water",
	"lap",
	"public swim",
	"family swim",
	"lane swim",
	"recreational swim",
	"members swim",
}

// NonPoolKeywords excludes competing rink uses that share the pool color.
var NonPoolKeywords = []string{"skating club", "hockey", "ice"}

// ExcludedTitles are social bookings filtered out of the swim feed even
// though they carry the pool color.
var ExcludedTitles = []string{"Pool Party", "Private Pool Party Rental"}

// ExactTitle pins an unambiguous facility-specific label to a fixed
// classification. These take precedence over the keyword cascade because
// the generic keyword rules would misclassify them.
type ExactTitle struct {
	Title            string
	Lanes            bool
	Kids             bool
	MembersOnly      bool
	RestrictedAccess bool
	Category         model.AccessCategory
}

var ExactTitles = []ExactTitle{
	{Title: "Members Swim", Lanes: true, Kids: true, MembersOnly: true, Category: model.AccessMembersOnly},
	{Title: "Member Swim", Lanes: true, Kids: true, MembersOnly: true, Category: model.AccessMembersOnly},
	{Title: "MODL Women's Only Swim", Lanes: true, Kids: true, RestrictedAccess: true, Category: model.AccessWomensOnly},
	{Title: "Women's Only Swim", Lanes: true, Kids: true, RestrictedAccess: true, Category: model.AccessWomensOnly},
	{Title: "Senior Swim - 60+", Lanes: true, Kids: false, RestrictedAccess: true, Category: model.AccessSeniors60Plus},
	{Title: "Senior Swim 60+", Lanes: true, Kids: false, RestrictedAccess: true, Category: model.AccessSeniors60Plus},
}

// Keyword groups consumed by the classifier cascade, one group per branch.
var (
	MembersSwim      = []string{"members swim", "member swim", "member only"}
	RecreationalSwim = []string{"recreational swim"}
	LessonsAndLanes  = []string{"lessons & lanes", "lessons and lanes"}
	// PlayPoolOpen is the lessons-&-lanes exception: the children's pool is
	// only open when the title separately says so.
	PlayPoolOpen  = []string{"play pool", "play & therapy", "play and therapy"}
	PublicSwim    = []string{"public swim", "public swimming"}
	LapPoolClass  = []string{"elderfit", "senior swim", "aquafit"}
	ParentAndTot  = []string{"parent & tot", "parent and tot"}
	SensorySwim   = []string{"sensory swim"}
	WomensOnly    = []string{"women's only", "women only"}
	PrivateClosed = []string{"private rental", "closed to the public", "closed to public"}

	FallbackLanes = []string{"lane"}
	FallbackKids  = []string{"play", "family", "recreational"}
)

// LaneClosureNotes force lanes off regardless of any earlier branch or an
// explicit lane count. Applied last and unconditionally.
var LaneClosureNotes = []string{"lap pool closed", "no lanes"}
