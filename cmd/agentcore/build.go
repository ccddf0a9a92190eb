package main

import (
	"context"
	"fmt"

	"github.com/stepwise/agentcore/internal/agent"
	"github.com/stepwise/agentcore/internal/config"
	"github.com/stepwise/agentcore/internal/observability"
	"github.com/stepwise/agentcore/internal/sessions"
	"github.com/stepwise/agentcore/internal/tools/policy"
)

// builtRuntime bundles the runtime together with the observability components
// wired into it, so callers can flush/shutdown them on exit.
type builtRuntime struct {
	runtime      *agent.Runtime
	logger       *observability.Logger
	tracer       *observability.Tracer
	shutdown     func()
	metrics      *observability.Metrics
	policyRes    *policy.Resolver
	toolPolicy   *policy.Policy
	sessionStore sessions.Store
}

// buildRuntime loads cfg and assembles a Runtime plus its supporting
// observability and policy infrastructure.
func buildRuntime(cfg *config.Config, providerName string) (*builtRuntime, error) {
	provider, err := config.BuildProvider(&cfg.LLM, providerName)
	if err != nil {
		return nil, fmt.Errorf("build provider: %w", err)
	}
	if router, err := config.BuildRouter(&cfg.LLM); err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	} else if router != nil {
		// Routing, when enabled, takes the request-classification seat ahead
		// of the single-provider/fallback-chain provider built above.
		provider = router
	}

	store := sessions.NewMemoryStore()
	rt := agent.NewRuntime(provider, store)

	if pruning := config.EffectiveContextPruningSettings(cfg.Session.ContextPruning); pruning != nil {
		rt.SetContextPruning(pruning)
	}
	if summarization := config.EffectiveSummarizationConfig(cfg.Session.Summarization); summarization != nil {
		rt.SetSummarizationConfig(summarization)
	}

	toolExec := agent.DefaultToolExecConfig()
	if cfg.Tools.Execution.Parallelism > 0 {
		toolExec.Concurrency = cfg.Tools.Execution.Parallelism
	}
	if cfg.Tools.Execution.Timeout > 0 {
		toolExec.PerToolTimeout = cfg.Tools.Execution.Timeout
	}
	if cfg.Tools.Execution.MaxAttempts > 0 {
		toolExec.MaxAttempts = cfg.Tools.Execution.MaxAttempts
	}
	if cfg.Tools.Execution.RetryBackoff > 0 {
		toolExec.RetryBackoff = cfg.Tools.Execution.RetryBackoff
	}
	rt.SetToolExecConfig(toolExec)

	resolver := policy.NewResolver()
	toolPolicy := config.BuildPolicy(cfg.Tools.Execution)
	rt.SetGuardrails(config.BuildGuardrails(cfg.Guardrails))

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
		ServiceName:  cfg.Observability.Tracing.ServiceName,
		Endpoint:     cfg.Observability.Tracing.Endpoint,
		Environment:  cfg.Observability.Tracing.Environment,
		SamplingRate: cfg.Observability.Tracing.SamplingRate,
		Attributes:   cfg.Observability.Tracing.Attributes,
	})

	metrics := observability.NewMetrics()

	return &builtRuntime{
		runtime:      rt,
		logger:       logger,
		tracer:       tracer,
		shutdown:     func() { _ = shutdown(context.Background()) },
		metrics:      metrics,
		policyRes:    resolver,
		toolPolicy:   toolPolicy,
		sessionStore: store,
	}, nil
}
