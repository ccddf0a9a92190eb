package guardrails

import (
	"context"
	"fmt"
	"sync"

	"github.com/stepwise/agentcore/pkg/models"
)

// Phase identifies whether a tripped guardrail was checking input or output.
type Phase string

const (
	PhaseInput  Phase = "input"
	PhaseOutput Phase = "output"
)

// TrippedError is returned when a guardrail's tripwire fires. It is fatal to
// the run: the caller should abort rather than feed the condition back to
// the model as an observation.
type TrippedError struct {
	Phase         Phase
	GuardrailName string
	Info          any
}

func (e *TrippedError) Error() string {
	return fmt.Sprintf("%s guardrail %q triggered: %v", e.Phase, e.GuardrailName, e.Info)
}

// Set holds the guardrails configured for an agent. A zero-value Set runs no
// checks and CheckInput/CheckOutput are no-ops.
type Set struct {
	Input  []*InputGuardrail
	Output []*OutputGuardrail
}

// CheckInput runs the sequential input guardrails first (any trip aborts
// before the caller's llmCall ever runs), then runs the parallel guardrails
// concurrently with llmCall via a join. It returns llmCall's result only if
// no guardrail tripped.
//
// llmCall is invoked exactly once, concurrently with the parallel guardrails,
// unless a sequential guardrail trips first.
func (s Set) CheckInput(ctx context.Context, agentName string, messages []*models.Message, llmCall func() (any, error)) (any, error) {
	for _, g := range s.Input {
		if g.Parallel {
			continue
		}
		res, err := g.Run(ctx, agentName, messages)
		if err != nil {
			return nil, err
		}
		if res.Triggered() {
			return nil, &TrippedError{Phase: PhaseInput, GuardrailName: res.GuardrailName, Info: res.Output.Info}
		}
	}

	var parallel []*InputGuardrail
	for _, g := range s.Input {
		if g.Parallel {
			parallel = append(parallel, g)
		}
	}
	if len(parallel) == 0 {
		return llmCall()
	}

	type llmOutcome struct {
		value any
		err   error
	}
	llmDone := make(chan llmOutcome, 1)
	go func() {
		v, err := llmCall()
		llmDone <- llmOutcome{value: v, err: err}
	}()

	results := make([]Result, len(parallel))
	errs := make([]error, len(parallel))
	var wg sync.WaitGroup
	wg.Add(len(parallel))
	for i, g := range parallel {
		go func(i int, g *InputGuardrail) {
			defer wg.Done()
			results[i], errs[i] = g.Run(ctx, agentName, messages)
		}(i, g)
	}
	wg.Wait()

	outcome := <-llmDone

	for i := range parallel {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if results[i].Triggered() {
			return nil, &TrippedError{Phase: PhaseInput, GuardrailName: results[i].GuardrailName, Info: results[i].Output.Info}
		}
	}
	return outcome.value, outcome.err
}

// CheckOutput runs every configured output guardrail concurrently and
// returns the first TrippedError encountered, if any. All guardrails run to
// completion even if one trips, matching the distilled spec's "aggregate
// results" rule.
func (s Set) CheckOutput(ctx context.Context, agentName string, output string) error {
	if len(s.Output) == 0 {
		return nil
	}

	results := make([]Result, len(s.Output))
	errs := make([]error, len(s.Output))
	var wg sync.WaitGroup
	wg.Add(len(s.Output))
	for i, g := range s.Output {
		go func(i int, g *OutputGuardrail) {
			defer wg.Done()
			results[i], errs[i] = g.Run(ctx, agentName, output)
		}(i, g)
	}
	wg.Wait()

	for i := range s.Output {
		if errs[i] != nil {
			return errs[i]
		}
	}
	for i := range s.Output {
		if results[i].Triggered() {
			return &TrippedError{Phase: PhaseOutput, GuardrailName: results[i].GuardrailName, Info: results[i].Output.Info}
		}
	}
	return nil
}
