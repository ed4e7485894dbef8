package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Mode selects which category of payload the fallback generator synthesizes.
// It is passed explicitly by the stage runner rather than inferred from the
// prompt text, so a prompt that merely mentions "itinerary" cannot be
// misclassified.
type Mode int

const (
	ModeResearch Mode = iota
	ModeItinerary
	ModeReview
)

func (m Mode) String() string {
	switch m {
	case ModeItinerary:
		return "itinerary"
	case ModeReview:
		return "review"
	default:
		return "research"
	}
}

var (
	startDateRe   = regexp.MustCompile(`from (\d{4}-\d{2}-\d{2})`)
	endDateRe     = regexp.MustCompile(`to (\d{4}-\d{2}-\d{2})`)
	destinationRe = regexp.MustCompile(`trip to ([A-Za-z\s]+) from`)
	preferencesRe = regexp.MustCompile(`Preferences: ([^.]*)`)
)

// promptParams are the trip parameters recovered from a stage prompt.
type promptParams struct {
	destination string
	preferences string
	duration    int
}

// parsePrompt extracts destination, preferences and trip duration from the
// prompt text. Missing or unparseable dates default the duration to 3 days;
// a missing destination falls back to the literal "destination".
func parsePrompt(prompt string) promptParams {
	p := promptParams{destination: "destination", duration: 3}

	if m := destinationRe.FindStringSubmatch(prompt); m != nil {
		if d := strings.TrimSpace(m[1]); d != "" {
			p.destination = d
		}
	}
	if m := preferencesRe.FindStringSubmatch(prompt); m != nil {
		p.preferences = strings.TrimSpace(m[1])
	}

	sm := startDateRe.FindStringSubmatch(prompt)
	em := endDateRe.FindStringSubmatch(prompt)
	if sm != nil && em != nil {
		start, err1 := time.Parse("2006-01-02", sm[1])
		end, err2 := time.Parse("2006-01-02", em[1])
		if err1 == nil && err2 == nil {
			p.duration = int(end.Sub(start).Hours()/24) + 1
		}
	}

	return p
}

// FallbackGenerator deterministically synthesizes the payloads the external
// text service would produce. Identical prompts always yield identical
// output; preference handling is keyword-driven and case-insensitive, so
// wording variations that preserve the keyword set do not change the result.
type FallbackGenerator struct{}

// NewFallbackGenerator creates a fallback generator.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Synthesize produces the mode-specific payload for the prompt, serialized to
// JSON so downstream extraction treats it exactly like a model response.
func (g *FallbackGenerator) Synthesize(mode Mode, prompt string) string {
	p := parsePrompt(prompt)

	var payload any
	switch mode {
	case ModeItinerary:
		payload = g.itinerary(p)
	case ModeReview:
		payload = g.review(p)
	default:
		payload = g.research(p)
	}

	// Marshaling plain maps/slices of strings cannot fail.
	b, _ := json.Marshal(payload)
	return string(b)
}

func (g *FallbackGenerator) research(p promptParams) map[string]any {
	prefs := strings.ToLower(p.preferences)

	attractions := []string{
		fmt.Sprintf("Famous landmarks in %s", p.destination),
		"Local museums and galleries",
		"Food markets and restaurants",
		"Cultural sites and monuments",
	}
	if strings.Contains(prefs, "museum") {
		attractions = append(attractions, fmt.Sprintf("Specialized museums in %s", p.destination))
	}
	if strings.Contains(prefs, "food") {
		attractions = append(attractions, "Local cuisine hotspots")
	}

	return map[string]any{
		"attractions": attractions,
		"weather":     "Mild, 20-25C, mostly sunny",
		"local_tips":  fmt.Sprintf("Best time to visit %s attractions", p.destination),
	}
}

func (g *FallbackGenerator) itinerary(p promptParams) []DayPlan {
	prefs := strings.ToLower(p.preferences)

	days := make([]DayPlan, 0, p.duration)
	for day := 1; day <= p.duration; day++ {
		var activities []string

		switch {
		// day 1 wins over the departure template on single-day trips
		case day == 1:
			activities = []string{
				fmt.Sprintf("Arrive in %s", p.destination),
				"Check in to hotel",
				"Explore the city center",
				"Try local cuisine",
			}
		case day == p.duration:
			activities = []string{
				"Final day exploration",
				"Visit any missed attractions",
				"Shopping for souvenirs",
				"Departure",
			}
		default:
			if strings.Contains(prefs, "museum") {
				activities = append(activities, fmt.Sprintf("Visit %s Museum", p.destination))
			}
			if strings.Contains(prefs, "food") || strings.Contains(prefs, "cuisine") {
				activities = append(activities, "Food tour of local restaurants")
			}
			if strings.Contains(prefs, "culture") {
				activities = append(activities, "Cultural site visit")
			}
			if strings.Contains(prefs, "nature") || strings.Contains(prefs, "park") {
				activities = append(activities, "Visit local parks and gardens")
			}
			if strings.Contains(prefs, "shopping") {
				activities = append(activities, "Shopping at local markets")
			}
			if strings.Contains(prefs, "history") {
				activities = append(activities, "Historical site exploration")
			}

			if len(activities) == 0 {
				activities = append(activities,
					fmt.Sprintf("Explore %s attractions", p.destination),
					"Local sightseeing",
					"Evening entertainment",
				)
			}

			if day%2 == 0 {
				activities = append(activities, "Relaxing afternoon")
			} else {
				activities = append(activities, "Adventure activities")
			}
		}

		days = append(days, DayPlan{Day: day, Activities: activities})
	}

	return days
}

func (g *FallbackGenerator) review(p promptParams) map[string]any {
	prefs := strings.ToLower(p.preferences)

	var suggestions []string
	if strings.Contains(prefs, "museum") && p.duration > 3 {
		suggestions = append(suggestions, "Consider adding more museum visits")
	}
	if strings.Contains(prefs, "food") {
		suggestions = append(suggestions, "Include more local food experiences")
	}
	if p.duration > 5 {
		suggestions = append(suggestions, "Add day trips to nearby attractions")
	}
	if strings.Contains(prefs, "culture") {
		suggestions = append(suggestions, "Include more cultural activities")
	}
	if len(suggestions) == 0 {
		suggestions = []string{"Add more local experiences", "Include evening activities"}
	}

	return map[string]any{
		"review":      fmt.Sprintf("Good %d-day itinerary for %s", p.duration, p.destination),
		"suggestions": suggestions,
	}
}
