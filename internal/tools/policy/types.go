// Package policy provides tool authorization and access control for the
// agent runtime's tool registry. It defines profiles, policies, and groups
// for managing which tools an agent is allowed to invoke, and the approval
// workflow for tools whose execution policy is require_confirmation.
package policy

import (
	"strings"
)

// Profile defines a pre-configured tool access profile that provides
// sensible defaults for common use cases like coding or read-only review.
type Profile string

const (
	// ProfileMinimal allows only status tools.
	ProfileMinimal Profile = "minimal"

	// ProfileCoding allows filesystem, runtime, and web tools.
	ProfileCoding Profile = "coding"

	// ProfileMessaging allows messaging tools.
	ProfileMessaging Profile = "messaging"

	// ProfileFull allows all tools (except explicitly denied).
	ProfileFull Profile = "full"
)

// ExecutionPolicy classifies how a tool call may proceed once the registry
// resolves it: run immediately, never run, or pause for confirmation.
type ExecutionPolicy string

const (
	// ExecutionAllow lets the tool run without any confirmation step.
	ExecutionAllow ExecutionPolicy = "allow"

	// ExecutionForbid rejects the call before it reaches the tool.
	ExecutionForbid ExecutionPolicy = "forbid"

	// ExecutionRequireConfirmation routes the call through the confirmation
	// handler before it is dispatched.
	ExecutionRequireConfirmation ExecutionPolicy = "require_confirmation"
)

// Policy defines tool access rules for an agent combining profiles with
// explicit allow and deny lists. Deny rules always take precedence over allow rules.
type Policy struct {
	// Profile is a pre-configured access level.
	Profile Profile `json:"profile,omitempty" yaml:"profile"`

	// Allow explicitly allows these tools (in addition to profile).
	Allow []string `json:"allow,omitempty" yaml:"allow"`

	// Deny explicitly denies these tools (overrides allow).
	Deny []string `json:"deny,omitempty" yaml:"deny"`

	// RequireConfirmation lists tools (or group/wildcard patterns) whose
	// execution policy is require_confirmation rather than allow.
	RequireConfirmation []string `json:"require_confirmation,omitempty" yaml:"require_confirmation"`

	// ByProvider applies additional policy rules scoped to a tool provider
	// key, e.g. "core" for built-in tools or a managed-agent's name for
	// tools it exposes as a sub-agent.
	ByProvider map[string]*Policy `json:"by_provider,omitempty" yaml:"by_provider,omitempty"`
}

// ToolGroup defines a named group of tools for convenient bulk permissions.
type ToolGroup struct {
	Name  string
	Tools []string
}

// DefaultGroups are the built-in tool groups.
// Groups can be referenced in policies using their key (e.g., "group:fs").
var DefaultGroups = map[string][]string{
	"group:fs":        {"read", "write", "edit", "exec"},
	"group:web":       {"websearch", "webfetch"},
	"group:runtime":   {"sandbox"},
	"group:memory":    {"memory_search"},
	"group:browser":   {"browser"},
	"group:messaging": {"send_message"},
	"group:jobs":      {"job_status"},
	"group:core": {
		"read", "write", "edit", "exec",
		"websearch", "webfetch",
		"sandbox",
		"memory_search",
		"browser",
		"send_message",
		"job_status",
	},
	// Dynamic source groups (e.g. "agent:researcher") are populated at
	// runtime via Resolver.RegisterDynamicSource.
	"group:all": {},
}

// ProfileDefaults defines the default allow lists for each profile.
var ProfileDefaults = map[Profile]*Policy{
	ProfileMinimal: {
		Allow: []string{"status"},
	},
	ProfileCoding: {
		Allow: []string{"group:fs", "group:runtime", "group:web", "group:memory"},
	},
	ProfileMessaging: {
		Allow: []string{"group:messaging", "status"},
	},
	ProfileFull: {
		// Full profile allows everything not explicitly denied
	},
}

// ToolAliases maps alternative names to canonical tool names.
var ToolAliases = map[string]string{
	"bash":        "exec",
	"shell":       "exec",
	"apply-patch": "edit",
	"apply_patch": "edit",
	"sandbox":     "execute_code",
	"websearch":   "web_search",
	"webfetch":    "web_fetch",
}

// NormalizeTool normalizes a tool name to its canonical form by converting
// to lowercase and resolving known aliases.
func NormalizeTool(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := ToolAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// NormalizeTools normalizes a list of tool names to their canonical forms.
func NormalizeTools(names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		normalized := NormalizeTool(name)
		if normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// PolicyBuilder provides a fluent interface for constructing a Policy.
type PolicyBuilder struct {
	policy *Policy
}

// NewPolicyBuilder creates a new policy builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: &Policy{}}
}

// WithProfile sets the base profile.
func (b *PolicyBuilder) WithProfile(profile Profile) *PolicyBuilder {
	b.policy.Profile = profile
	return b
}

// Allow allows the given tools or group references.
func (b *PolicyBuilder) AllowTools(tools ...string) *PolicyBuilder {
	for _, t := range tools {
		b.policy.Allow = append(b.policy.Allow, NormalizeTool(t))
	}
	return b
}

// AllowGroup allows a named tool group (e.g., "fs", "web").
func (b *PolicyBuilder) AllowGroup(groups ...string) *PolicyBuilder {
	for _, g := range groups {
		if !strings.HasPrefix(g, "group:") {
			g = "group:" + g
		}
		b.policy.Allow = append(b.policy.Allow, g)
	}
	return b
}

// DenyTools denies the given tools or group references.
func (b *PolicyBuilder) DenyTools(tools ...string) *PolicyBuilder {
	for _, t := range tools {
		b.policy.Deny = append(b.policy.Deny, NormalizeTool(t))
	}
	return b
}

// RequireConfirmationFor marks tools or patterns as require_confirmation.
func (b *PolicyBuilder) RequireConfirmationFor(tools ...string) *PolicyBuilder {
	for _, t := range tools {
		b.policy.RequireConfirmation = append(b.policy.RequireConfirmation, NormalizeTool(t))
	}
	return b
}

// WithProviderPolicy sets provider-specific policy overrides, keyed by the
// provider (e.g. "core" or a managed agent's name).
func (b *PolicyBuilder) WithProviderPolicy(provider string, policy *Policy) *PolicyBuilder {
	if b.policy.ByProvider == nil {
		b.policy.ByProvider = make(map[string]*Policy)
	}
	b.policy.ByProvider[provider] = policy
	return b
}

// Build returns the constructed policy.
func (b *PolicyBuilder) Build() *Policy {
	return b.policy
}
