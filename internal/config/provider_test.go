package config

import "testing"

func TestBuildProvider_NoFallbackChain(t *testing.T) {
	cfg := &LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]LLMProviderConfig{
			"openai": {APIKey: "sk-test"},
		},
	}

	provider, err := BuildProvider(cfg, "")
	if err != nil {
		t.Fatalf("BuildProvider() error = %v", err)
	}
	if provider.Name() != "openai" {
		t.Fatalf("provider.Name() = %q, want %q", provider.Name(), "openai")
	}
}

func TestBuildProvider_FallbackChainWrapsOrchestrator(t *testing.T) {
	cfg := &LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]LLMProviderConfig{
			"openai":  {APIKey: "sk-test"},
			"bedrock": {DefaultModel: "anthropic.claude-3-sonnet-20240229-v1:0"},
		},
		FallbackChain: []string{"bedrock", "openai"}, // self-reference should be skipped
	}

	provider, err := BuildProvider(cfg, "")
	if err != nil {
		t.Fatalf("BuildProvider() error = %v", err)
	}
	if provider.Name() != "failover:openai" {
		t.Fatalf("orchestrator should report the primary's name, got %q", provider.Name())
	}
}

func TestBuildProvider_UnsupportedProvider(t *testing.T) {
	cfg := &LLMConfig{Providers: map[string]LLMProviderConfig{}}
	if _, err := BuildProvider(cfg, "not-a-real-provider"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestBuildAllProviders(t *testing.T) {
	cfg := &LLMConfig{
		Providers: map[string]LLMProviderConfig{
			"openai":  {APIKey: "sk-test"},
			"bedrock": {},
		},
	}

	built, err := BuildAllProviders(cfg)
	if err != nil {
		t.Fatalf("BuildAllProviders() error = %v", err)
	}
	if len(built) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(built))
	}
	if _, ok := built["openai"]; !ok {
		t.Fatal("expected openai provider in result")
	}
	if _, ok := built["bedrock"]; !ok {
		t.Fatal("expected bedrock provider in result")
	}
}

func TestBuildRouter_DisabledReturnsNil(t *testing.T) {
	cfg := &LLMConfig{
		Providers: map[string]LLMProviderConfig{"openai": {APIKey: "sk-test"}},
	}

	router, err := BuildRouter(cfg)
	if err != nil {
		t.Fatalf("BuildRouter() error = %v", err)
	}
	if router != nil {
		t.Fatal("expected nil router when routing is disabled")
	}
}

func TestBuildRouter_EnabledWiresProviders(t *testing.T) {
	cfg := &LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]LLMProviderConfig{
			"openai":  {APIKey: "sk-test"},
			"bedrock": {},
		},
		Routing: LLMRoutingConfig{
			Enabled: true,
			Rules: []RoutingRule{
				{Name: "heavy", Match: RoutingMatch{Tags: []string{"long"}}, Target: RoutingTarget{Provider: "bedrock"}},
			},
		},
	}

	router, err := BuildRouter(cfg)
	if err != nil {
		t.Fatalf("BuildRouter() error = %v", err)
	}
	if router == nil {
		t.Fatal("expected a non-nil router when routing is enabled")
	}
	if router.Name() != "router:openai" {
		t.Fatalf("router.Name() = %q, want %q", router.Name(), "router:openai")
	}
}

func TestEffectiveSummarizationConfig_Disabled(t *testing.T) {
	if cfg := EffectiveSummarizationConfig(SummarizationConfig{}); cfg != nil {
		t.Fatal("expected nil when summarization is disabled")
	}
}

func TestEffectiveSummarizationConfig_AppliesOverridesAndDefaults(t *testing.T) {
	cfg := EffectiveSummarizationConfig(SummarizationConfig{
		Enabled:   true,
		MaxTokens: 4000,
	})
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.MaxTokensBeforeSummary != 4000 {
		t.Fatalf("MaxTokensBeforeSummary = %d, want 4000", cfg.MaxTokensBeforeSummary)
	}
	if cfg.MaxMsgsBeforeSummary != 30 {
		t.Fatalf("MaxMsgsBeforeSummary should default to 30, got %d", cfg.MaxMsgsBeforeSummary)
	}
}
