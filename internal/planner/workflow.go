package planner

import (
	"context"
	"time"

	"github.com/abhinavghub/trip-planner/internal/telemetry"
)

// stage is one node of the planning state machine.
type stage int

const (
	stageResearch stage = iota
	stageGenerate
	stageCritique
	stageDone
)

func (s stage) next() stage {
	switch s {
	case stageResearch:
		return stageGenerate
	case stageGenerate:
		return stageCritique
	default:
		return stageDone
	}
}

// Workflow sequences the three pipeline stages. The graph is strictly
// linear (research, generate, critique) with a fixed entry point: no
// branching, no cycles, no workflow-level retries.
type Workflow struct {
	runner    *StageRunner
	telemetry *telemetry.Telemetry
}

// NewWorkflow creates a workflow backed by the given text generator.
func NewWorkflow(generator TextGenerator, tele *telemetry.Telemetry, maxLength int) *Workflow {
	return &Workflow{
		runner:    NewStageRunner(generator, tele, maxLength),
		telemetry: tele,
	}
}

// Run drives the initial state through every stage and returns the terminal
// state. The result is always structurally valid; the only error returned is
// context cancellation between stages, and even then the state accumulated
// so far is returned.
func (w *Workflow) Run(ctx context.Context, state TripState) (TripState, error) {
	start := time.Now()

	for s := stageResearch; s != stageDone; s = s.next() {
		select {
		case <-ctx.Done():
			w.telemetry.RecordRequest(false, time.Since(start))
			return state, ctx.Err()
		default:
		}

		switch s {
		case stageResearch:
			state = w.runner.RunResearch(ctx, state)
		case stageGenerate:
			state = w.runner.RunGenerate(ctx, state)
		case stageCritique:
			state = w.runner.RunCritique(ctx, state)
		}
	}

	w.telemetry.RecordRequest(true, time.Since(start))
	return state, nil
}
