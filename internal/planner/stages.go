package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhinavghub/trip-planner/internal/telemetry"
)

const (
	// defaultMaxLength bounds the text the inference endpoint may generate.
	defaultMaxLength = 300

	// minResponseLength is the quality-gate floor: anything shorter is
	// treated as low-information model output.
	minResponseLength = 50

	// gatePrefixLength is how much of the response head the quality gate
	// inspects for the generic-output heuristic.
	gatePrefixLength = 20
)

// StageRunner executes the three pipeline stages. Each stage builds its
// prompt, asks the text generator once, quality-gates the result, substitutes
// the fallback generator when needed, extracts the structured payload and
// returns a new state with exactly one field replaced.
type StageRunner struct {
	generator TextGenerator
	fallback  *FallbackGenerator
	telemetry *telemetry.Telemetry
	logger    *log.Logger
	maxLength int
}

// NewStageRunner creates a stage runner. maxLength <= 0 defaults to 300.
func NewStageRunner(generator TextGenerator, tele *telemetry.Telemetry, maxLength int) *StageRunner {
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	return &StageRunner{
		generator: generator,
		fallback:  NewFallbackGenerator(),
		telemetry: tele,
		logger:    log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
		maxLength: maxLength,
	}
}

// acceptable is the quality gate: a response shorter than the minimum, or
// whose head contains the definite article, is rejected in favor of the
// fallback generator.
func acceptable(text string) bool {
	if len(text) < minResponseLength {
		return false
	}
	head := strings.ToLower(text)
	if len(head) > gatePrefixLength {
		head = head[:gatePrefixLength]
	}
	return !strings.Contains(head, "the")
}

// generateText returns the text for a stage prompt and the source it came
// from. Generator errors and gate rejections are absorbed here: the fallback
// substitution is silent and the pipeline continues as if it were primary.
func (r *StageRunner) generateText(ctx context.Context, mode Mode, prompt string) (string, string) {
	text, err := r.generator.Generate(ctx, prompt, r.maxLength)
	if err != nil {
		r.logger.Printf("%s: generation failed, using fallback: %v", mode, err)
		return r.fallback.Synthesize(mode, prompt), "fallback"
	}
	if !acceptable(text) {
		return r.fallback.Synthesize(mode, prompt), "fallback"
	}
	return text, "model"
}

// RunResearch populates the research field of the state.
func (r *StageRunner) RunResearch(ctx context.Context, state TripState) TripState {
	start := time.Now()
	prompt := fmt.Sprintf(
		"Research attractions and weather for a trip to %s from %s to %s. Preferences: %s.",
		state.Destination,
		state.StartDate.Format("2006-01-02"),
		state.EndDate.Format("2006-01-02"),
		state.Preferences,
	)

	text, source := r.generateText(ctx, ModeResearch, prompt)
	research := ExtractObject(text)
	if len(research) == 0 {
		r.telemetry.RecordExtractionMiss("research")
	}
	r.telemetry.RecordStage("research", source, time.Since(start))

	return state.WithResearch(research)
}

// RunGenerate populates the itinerary field of the state using the research
// gathered by the previous stage.
func (r *StageRunner) RunGenerate(ctx context.Context, state TripState) TripState {
	start := time.Now()
	researchJSON, _ := json.Marshal(state.Research)
	prompt := fmt.Sprintf(
		"Plan a detailed itinerary for a trip to %s from %s to %s. Preferences: %s. Research: %s. "+
			"Return a JSON list of days, each with a list of activities.",
		state.Destination,
		state.StartDate.Format("2006-01-02"),
		state.EndDate.Format("2006-01-02"),
		state.Preferences,
		researchJSON,
	)

	text, source := r.generateText(ctx, ModeItinerary, prompt)
	items := ExtractArray(text)
	if len(items) == 0 {
		r.telemetry.RecordExtractionMiss("generate")
	}
	r.telemetry.RecordStage("generate", source, time.Since(start))

	return state.WithItinerary(coerceItinerary(items))
}

// RunCritique populates the review field of the state from the generated
// itinerary.
func (r *StageRunner) RunCritique(ctx context.Context, state TripState) TripState {
	start := time.Now()
	itineraryJSON, _ := json.Marshal(state.Itinerary)
	prompt := fmt.Sprintf(
		"Review this itinerary for a trip to %s from %s to %s: %s. Preferences: %s. "+
			"Suggest improvements. Return a JSON object with 'review' and 'suggestions'.",
		state.Destination,
		state.StartDate.Format("2006-01-02"),
		state.EndDate.Format("2006-01-02"),
		itineraryJSON,
		state.Preferences,
	)

	text, source := r.generateText(ctx, ModeReview, prompt)
	review := ExtractObject(text)
	if len(review) == 0 {
		r.telemetry.RecordExtractionMiss("critique")
	}
	r.telemetry.RecordStage("critique", source, time.Since(start))

	return state.WithReview(review)
}

// coerceItinerary turns an extracted JSON array into day plans. Objects use
// their "activities" list, a bare array element becomes that day's
// activities, anything else is skipped. Day numbers are reassigned from
// position so the result is always 1-based and contiguous.
func coerceItinerary(items []any) []DayPlan {
	days := make([]DayPlan, 0, len(items))
	for _, item := range items {
		var activities []string
		switch v := item.(type) {
		case map[string]any:
			activities = toStringList(v["activities"])
		case []any:
			activities = toStringList(v)
		default:
			continue
		}
		days = append(days, DayPlan{Day: len(days) + 1, Activities: activities})
	}
	return days
}

func toStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
