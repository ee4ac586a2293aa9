package domain

import (
	"time"
)

// AdaptationType selects the mutation an adaptation performs when applied.
type AdaptationType string

const (
	AdaptWeather AdaptationType = "weather"
	AdaptEvent   AdaptationType = "event"
	AdaptBudget  AdaptationType = "budget"
	AdaptCrowd   AdaptationType = "crowd"
	AdaptTime    AdaptationType = "time"
)

// Priority ranks how urgently an adaptation should be reviewed.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Impact describes the expected effect of applying an adaptation.
type Impact string

const (
	ImpactMinor    Impact = "minor"
	ImpactModerate Impact = "moderate"
	ImpactMajor    Impact = "major"
	ImpactUpside   Impact = "positive"
)

// Target is the structured reference an adaptation carries to the part of the
// itinerary it mutates. It is populated at generation time so application
// never has to parse dates or locations back out of free text.
type Target struct {
	Date        *time.Time `json:"date,omitempty"`
	ActivityIDs []string   `json:"activity_ids,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// Alternative is a substitute activity proposed by the text-generation
// collaborator. OriginalCost is the cost band the alternative replaces;
// it is zero for weather alternatives, which substitute positionally.
type Alternative struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Cost         float64 `json:"cost"`
	OriginalCost float64 `json:"original_cost,omitempty"`
}

// Adaptation is a scored, typed proposal to change part of an itinerary in
// response to a real-time signal. Confidence is fixed per generating rule.
type Adaptation struct {
	ID              string         `json:"id"`
	Type            AdaptationType `json:"type"`
	Priority        Priority       `json:"priority"`
	Reason          string         `json:"reason"`
	SuggestedChange string         `json:"suggested_change"`
	Impact          Impact         `json:"impact"`
	Confidence      float64        `json:"confidence"`
	Accepted        bool           `json:"accepted"`
	AppliedAt       *time.Time     `json:"applied_at,omitempty"`
	Target          Target         `json:"target"`

	// Type-specific payloads.
	Alternatives     []Alternative `json:"alternatives,omitempty"`
	Event            *LocalEvent   `json:"event,omitempty"`
	RecommendedTimes string        `json:"recommended_times,omitempty"`
}

// MarkApplied transitions Accepted false->true and stamps AppliedAt.
// The transition happens at most once; later calls are no-ops.
func (a *Adaptation) MarkApplied(at time.Time) {
	if a.Accepted {
		return
	}
	a.Accepted = true
	a.AppliedAt = &at
}
