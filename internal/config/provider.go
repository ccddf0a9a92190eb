package config

import (
	"fmt"
	"strings"

	"github.com/stepwise/agentcore/internal/agent"
	"github.com/stepwise/agentcore/internal/agent/providers"
	"github.com/stepwise/agentcore/internal/agent/routing"
	"github.com/stepwise/agentcore/internal/guardrails"
	"github.com/stepwise/agentcore/internal/tools/policy"
)

// buildNamedProvider constructs a single provider by name using cfg.Providers.
// Supported provider names: "anthropic", "openai", "bedrock".
func buildNamedProvider(cfg *LLMConfig, name string) (agent.LLMProvider, error) {
	switch name {
	case "anthropic":
		pc := cfg.Providers["anthropic"]
		return providers.NewAnthropicProvider(providers.AnthropicConfig{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			DefaultModel: pc.DefaultModel,
		})
	case "bedrock":
		pc := cfg.Providers["bedrock"]
		return providers.NewBedrockProvider(providers.BedrockConfig{
			Region:       cfg.Bedrock.Region,
			DefaultModel: pc.DefaultModel,
		})
	case "openai":
		pc := cfg.Providers["openai"]
		return providers.NewOpenAIProvider(pc.APIKey), nil
	default:
		return nil, fmt.Errorf("config: unsupported provider %q", name)
	}
}

// BuildProvider constructs the configured LLM provider for providerName using
// the matching entry in cfg.LLM.Providers. Supported provider names: "anthropic",
// "openai", "bedrock". When cfg.FallbackChain is non-empty, the returned
// provider is a agent.FailoverOrchestrator that retries each chain entry in
// order after the primary provider returns a retryable/configuration error.
func BuildProvider(cfg *LLMConfig, providerName string) (agent.LLMProvider, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(cfg.DefaultProvider))
	}
	if name == "" {
		return nil, fmt.Errorf("config: no provider specified and no default_provider set")
	}

	primary, err := buildNamedProvider(cfg, name)
	if err != nil {
		return nil, err
	}
	if len(cfg.FallbackChain) == 0 {
		return primary, nil
	}

	orchestrator := agent.NewFailoverOrchestrator(primary, agent.DefaultFailoverConfig())
	for _, fallbackName := range cfg.FallbackChain {
		fallbackName = strings.ToLower(strings.TrimSpace(fallbackName))
		if fallbackName == "" || fallbackName == name {
			continue
		}
		fb, err := buildNamedProvider(cfg, fallbackName)
		if err != nil {
			return nil, fmt.Errorf("config: fallback provider %q: %w", fallbackName, err)
		}
		orchestrator.AddProvider(fb)
	}
	return orchestrator, nil
}

// BuildAllProviders constructs every provider named in cfg.Providers, keyed
// by its lowercased, trimmed name. Used by BuildRouter, which needs the full
// set rather than just a primary + fallback chain.
func BuildAllProviders(cfg *LLMConfig) (map[string]agent.LLMProvider, error) {
	built := make(map[string]agent.LLMProvider, len(cfg.Providers))
	for name := range cfg.Providers {
		normalized := strings.ToLower(strings.TrimSpace(name))
		p, err := buildNamedProvider(cfg, normalized)
		if err != nil {
			return nil, fmt.Errorf("config: provider %q: %w", name, err)
		}
		built[normalized] = p
	}
	return built, nil
}

// BuildRouter constructs a routing.Router from cfg.Routing, wired against
// every provider in cfg.Providers. Returns (nil, nil) when routing is
// disabled. The router's classifier always falls back to
// routing.HeuristicClassifier — cfg.Routing.Classifier is a label for
// future classifier backends; no second implementation exists yet in this
// codebase to select by name.
func BuildRouter(cfg *LLMConfig) (*routing.Router, error) {
	if !cfg.Routing.Enabled {
		return nil, nil
	}

	built, err := BuildAllProviders(cfg)
	if err != nil {
		return nil, err
	}

	var localProviders []string
	if cfg.AutoDiscover.Ollama.Enabled {
		localProviders = append(localProviders, "ollama")
	}

	rules := make([]routing.Rule, 0, len(cfg.Routing.Rules))
	for _, rule := range cfg.Routing.Rules {
		rules = append(rules, routing.Rule{
			Name: rule.Name,
			Match: routing.Match{
				Patterns: rule.Match.Patterns,
				Tags:     rule.Match.Tags,
			},
			Target: routing.Target{
				Provider: rule.Target.Provider,
				Model:    rule.Target.Model,
			},
		})
	}

	return routing.NewRouter(routing.Config{
		DefaultProvider: cfg.DefaultProvider,
		PreferLocal:     cfg.Routing.PreferLocal,
		LocalProviders:  localProviders,
		Rules:           rules,
		Fallback: routing.Target{
			Provider: cfg.Routing.Fallback.Provider,
			Model:    cfg.Routing.Fallback.Model,
		},
		FailureCooldown: cfg.Routing.UnhealthyCooldown,
	}, built), nil
}

// effectiveProfile returns the configured approval profile, defaulting to "coding".
func (a *ApprovalConfig) effectiveProfile() string {
	profile := strings.ToLower(strings.TrimSpace(a.Profile))
	if profile == "" {
		return "coding"
	}
	return profile
}

// BuildPolicy converts the tool execution approval config into a policy.Policy.
func BuildPolicy(cfg ToolExecutionConfig) *policy.Policy {
	approval := cfg.Approval
	return &policy.Policy{
		Profile: policy.Profile(approval.effectiveProfile()),
		Allow:   policy.NormalizeTools(approval.Allowlist),
		Deny:    policy.NormalizeTools(approval.Denylist),
	}
}

// BuildGuardrails converts the configured guardrail settings into a
// guardrails.Set of packaged keyword and length checks. Returns a zero-value
// Set (no checks) when nothing is configured.
func BuildGuardrails(cfg GuardrailsConfig) guardrails.Set {
	var set guardrails.Set
	if len(cfg.DeniedPhrases) > 0 {
		set.Input = append(set.Input, guardrails.KeywordInputGuardrail("denied-phrases", cfg.DeniedPhrases).SequentialOnly())
		set.Output = append(set.Output, guardrails.KeywordOutputGuardrail("denied-phrases", cfg.DeniedPhrases))
	}
	if cfg.MaxOutputChars > 0 {
		set.Output = append(set.Output, guardrails.MaxLengthOutputGuardrail("max-output-length", cfg.MaxOutputChars))
	}
	return set
}
