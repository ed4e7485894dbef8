package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavghub/trip-planner/internal/telemetry"
)

func TestWorkflowRunsAllStages(t *testing.T) {
	gen := &stubGenerator{err: errors.New("service unavailable")}
	w := NewWorkflow(gen, telemetry.New(nil), 0)

	final, err := w.Run(context.Background(), testState())
	require.NoError(t, err)

	assert.NotEmpty(t, final.Research)
	assert.NotEmpty(t, final.Itinerary)
	assert.NotEmpty(t, final.Review)
}

// Full degradation scenario: external service down for every stage.
func TestWorkflowParisWithServiceUnavailable(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	w := NewWorkflow(gen, telemetry.New(nil), 0)

	final, err := w.Run(context.Background(), testState())
	require.NoError(t, err)
	require.Len(t, final.Itinerary, 3)

	day2 := final.Itinerary[1]
	assert.Contains(t, day2.Activities, "Visit Paris Museum")
	assert.Contains(t, day2.Activities, "Food tour of local restaurants")
	assert.Contains(t, day2.Activities, "Relaxing afternoon")

	assert.Equal(t, "Good 3-day itinerary for Paris", final.Review["review"])
	assert.Equal(t, []any{"Include more local food experiences"}, final.Review["suggestions"])
}

func TestWorkflowStateOwnership(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	w := NewWorkflow(gen, telemetry.New(nil), 0)

	initial := testState()
	final, err := w.Run(context.Background(), initial)
	require.NoError(t, err)

	// the initial state value is never mutated
	assert.Empty(t, initial.Research)
	assert.Empty(t, initial.Itinerary)
	assert.Empty(t, initial.Review)

	// identity fields travel through untouched
	assert.Equal(t, initial.Destination, final.Destination)
	assert.Equal(t, initial.Preferences, final.Preferences)
}

func TestWorkflowCancelledContext(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	w := NewWorkflow(gen, telemetry.New(nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	final, err := w.Run(ctx, testState())
	require.Error(t, err)
	// even when interrupted, the state keeps its well-shaped defaults
	assert.NotNil(t, final.Research)
	assert.NotNil(t, final.Itinerary)
	assert.NotNil(t, final.Review)
}

func TestWorkflowRecordsTelemetry(t *testing.T) {
	tele := telemetry.New(nil)
	gen := &stubGenerator{err: errors.New("down")}
	w := NewWorkflow(gen, tele, 0)

	_, err := w.Run(context.Background(), testState())
	require.NoError(t, err)

	snap := tele.Snapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.SuccessfulRequests)
	assert.Equal(t, int64(1), snap.StageExecutions["research"])
	assert.Equal(t, int64(1), snap.StageExecutions["generate"])
	assert.Equal(t, int64(1), snap.StageExecutions["critique"])
	assert.Equal(t, int64(1), snap.FallbackUses["research"])
}
