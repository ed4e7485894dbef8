package planner

import (
	"time"
)

// TripState is the record threaded through the planning pipeline. Each stage
// derives a new state from the previous one via the With* constructors and
// never mutates a field it does not own: Research belongs to the research
// stage, Itinerary to the generation stage, Review to the critique stage.
type TripState struct {
	Destination string         `json:"destination"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Preferences string         `json:"preferences"`
	Research    map[string]any `json:"research"`
	Itinerary   []DayPlan      `json:"itinerary"`
	Review      map[string]any `json:"review"`
}

// DayPlan is one day of an itinerary. Days are 1-based and contiguous.
// Created wholesale by the generation stage and read-only afterwards.
type DayPlan struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

// NewTripState builds the initial pipeline state with empty stage outputs of
// the correct shape.
func NewTripState(destination string, start, end time.Time, preferences string) TripState {
	return TripState{
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Preferences: preferences,
		Research:    map[string]any{},
		Itinerary:   []DayPlan{},
		Review:      map[string]any{},
	}
}

// WithResearch returns a copy of s with the research output replaced.
func (s TripState) WithResearch(research map[string]any) TripState {
	if research == nil {
		research = map[string]any{}
	}
	s.Research = research
	return s
}

// WithItinerary returns a copy of s with the itinerary replaced.
func (s TripState) WithItinerary(itinerary []DayPlan) TripState {
	if itinerary == nil {
		itinerary = []DayPlan{}
	}
	s.Itinerary = itinerary
	return s
}

// WithReview returns a copy of s with the review output replaced.
func (s TripState) WithReview(review map[string]any) TripState {
	if review == nil {
		review = map[string]any{}
	}
	s.Review = review
	return s
}

// Duration is the trip length in days, inclusive of both endpoints.
func (s TripState) Duration() int {
	return int(s.EndDate.Sub(s.StartDate).Hours()/24) + 1
}
