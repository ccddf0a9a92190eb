// Package guardrails provides input and output validation checks that run
// alongside agent execution.
//
// An input guardrail validates the message list about to be sent to the
// model; an output guardrail validates the final answer once the step loop
// produces one. Both report results through a tripwire flag rather than an
// error return — a tripped guardrail halts the run, while a non-tripwire
// error from the check function itself aborts the run as a fatal error.
package guardrails

import (
	"context"

	"github.com/stepwise/agentcore/pkg/models"
)

// Output is the result of a single guardrail check.
type Output struct {
	// Triggered is true when the tripwire fired; the run must halt.
	Triggered bool

	// Info carries diagnostic detail about the check (why it passed or
	// tripped) for observability and for the resulting error.
	Info any
}

// Pass returns a non-tripped Output.
func Pass() Output {
	return Output{}
}

// PassWithInfo returns a non-tripped Output carrying diagnostic metadata.
func PassWithInfo(info any) Output {
	return Output{Info: info}
}

// Trip returns a tripped Output carrying the reason it fired.
func Trip(info any) Output {
	return Output{Triggered: true, Info: info}
}

// InputCheck validates the message list about to be sent to the model.
type InputCheck func(ctx context.Context, agentName string, messages []*models.Message) (Output, error)

// OutputCheck validates the agent's final answer.
type OutputCheck func(ctx context.Context, agentName string, output string) (Output, error)

// InputGuardrail validates input before or alongside the first LLM call of a run.
type InputGuardrail struct {
	// Name identifies this guardrail in tracing and in the resulting error.
	Name string

	// Parallel, when true, runs this guardrail concurrently with the first
	// LLM call instead of blocking it. Defaults to true via NewInputGuardrail.
	Parallel bool

	check InputCheck
}

// NewInputGuardrail creates an input guardrail that runs in parallel with the
// first LLM call by default. Call SequentialOnly to block the call instead.
func NewInputGuardrail(name string, check InputCheck) *InputGuardrail {
	return &InputGuardrail{Name: name, Parallel: true, check: check}
}

// SequentialOnly makes this guardrail block the first LLM call instead of
// running concurrently with it, avoiding the LLM cost when it trips.
func (g *InputGuardrail) SequentialOnly() *InputGuardrail {
	g.Parallel = false
	return g
}

// Run executes the guardrail check and wraps the result with its name.
func (g *InputGuardrail) Run(ctx context.Context, agentName string, messages []*models.Message) (Result, error) {
	out, err := g.check(ctx, agentName, messages)
	if err != nil {
		return Result{}, err
	}
	return Result{GuardrailName: g.Name, Output: out}, nil
}

// Result is the outcome of running a single guardrail.
type Result struct {
	GuardrailName string
	Output        Output
}

// Triggered reports whether this result's tripwire fired.
func (r Result) Triggered() bool {
	return r.Output.Triggered
}

// OutputGuardrail validates the agent's final answer after the step loop
// completes. Output guardrails never run in parallel with an LLM call; all
// configured output guardrails run concurrently with each other instead.
type OutputGuardrail struct {
	Name  string
	check OutputCheck
}

// NewOutputGuardrail creates an output guardrail.
func NewOutputGuardrail(name string, check OutputCheck) *OutputGuardrail {
	return &OutputGuardrail{Name: name, check: check}
}

// Run executes the guardrail check and wraps the result with its name.
func (g *OutputGuardrail) Run(ctx context.Context, agentName string, output string) (Result, error) {
	out, err := g.check(ctx, agentName, output)
	if err != nil {
		return Result{}, err
	}
	return Result{GuardrailName: g.Name, Output: out}, nil
}
