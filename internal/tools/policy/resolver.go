package policy

import (
	"strings"
	"sync"
)

// Resolver resolves tool access based on policies by evaluating profiles,
// groups, allow lists, and deny lists. Tools registered dynamically at
// runtime (e.g. by a managed agent exposing a sub-agent as a tool) can be
// grouped under a source prefix and referenced with a wildcard.
type Resolver struct {
	mu            sync.RWMutex
	groups        map[string][]string
	dynamicSource map[string][]string // sourceID -> tool names
	aliases       map[string]string   // alias -> canonical tool name
}

// Decision explains why a tool was allowed or denied, providing
// the reason string for debugging and audit purposes.
type Decision struct {
	Allowed bool
	Tool    string
	Reason  string
}

// NewResolver creates a new policy resolver with default groups initialized.
func NewResolver() *Resolver {
	return &Resolver{
		groups:        DefaultGroups,
		dynamicSource: make(map[string][]string),
		aliases:       make(map[string]string),
	}
}

// AddGroup adds a custom tool group that can be referenced in policies.
func (r *Resolver) AddGroup(name string, tools []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[name] = tools
}

// RegisterDynamicSource registers tools exposed by a runtime source (such as
// a managed sub-agent or an external tool provider), making them available
// for policy rules and creating a group "<sourceID>:*" for convenience.
func (r *Resolver) RegisterDynamicSource(sourceID string, tools []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dynamicSource[sourceID] = tools
	r.groups[sourceID+":*"] = tools
}

// UnregisterDynamicSource removes tools registered for a runtime source.
func (r *Resolver) UnregisterDynamicSource(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dynamicSource, sourceID)
	delete(r.groups, sourceID+":*")
}

// RegisterAlias registers an alias that resolves to a canonical tool name,
// allowing alternative names like "bash" for "exec".
func (r *Resolver) RegisterAlias(alias string, canonical string) {
	alias = NormalizeTool(alias)
	canonical = NormalizeTool(canonical)
	if alias == "" || canonical == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = canonical
}

// CanonicalName resolves a tool name to its canonical form via registered aliases.
func (r *Resolver) CanonicalName(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canonicalNameLocked(name)
}

func (r *Resolver) canonicalNameLocked(name string) string {
	normalized := NormalizeTool(name)
	if canonical, ok := r.aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// ExpandGroups expands group references (e.g., "group:fs") and source
// wildcards (e.g., "researcher:*") in a tool list to their constituent tools.
func (r *Resolver) ExpandGroups(items []string) []string {
	var result []string
	seen := make(map[string]bool)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range items {
		normalized := r.canonicalNameLocked(item)

		if tools, ok := r.groups[normalized]; ok {
			for _, tool := range tools {
				if !seen[tool] {
					seen[tool] = true
					result = append(result, tool)
				}
			}
			continue
		}

		if strings.HasSuffix(normalized, ":*") {
			sourceID := strings.TrimSuffix(normalized, ":*")
			if tools, ok := r.dynamicSource[sourceID]; ok {
				for _, tool := range tools {
					fullName := sourceID + ":" + tool
					if !seen[fullName] {
						seen[fullName] = true
						result = append(result, fullName)
					}
				}
				continue
			}
		}

		if !seen[normalized] {
			seen[normalized] = true
			result = append(result, normalized)
		}
	}

	return result
}

// IsAllowed checks if a tool is allowed by the given policy and returns a boolean.
func (r *Resolver) IsAllowed(policy *Policy, toolName string) bool {
	return r.Decide(policy, toolName).Allowed
}

// Decide returns an allow/deny decision with a detailed reason string
// explaining which rule caused the decision.
func (r *Resolver) Decide(policy *Policy, toolName string) Decision {
	normalized := r.CanonicalName(toolName)
	decision := Decision{Allowed: false, Tool: normalized, Reason: "no matching allow rule"}

	if policy == nil {
		decision.Reason = "no policy configured"
		return decision
	}

	policy = r.effectivePolicyForTool(policy, normalized)
	if policy == nil {
		decision.Reason = "no policy configured"
		return decision
	}

	var allowed []string
	if policy.Profile != "" {
		if profilePolicy, ok := ProfileDefaults[policy.Profile]; ok && profilePolicy != nil {
			allowed = r.ExpandGroups(profilePolicy.Allow)
		}
	}
	if len(policy.Allow) > 0 {
		allowed = append(allowed, r.ExpandGroups(policy.Allow)...)
	}

	denied := r.ExpandGroups(policy.Deny)
	for _, d := range denied {
		if d == normalized || matchToolPattern(d, normalized) {
			decision.Reason = "denied by rule: " + d
			return decision
		}
	}

	if policy.Profile == ProfileFull {
		decision.Allowed = true
		decision.Reason = "allowed by profile full"
		return decision
	}

	for _, a := range allowed {
		if a == normalized || matchToolPattern(a, normalized) {
			decision.Allowed = true
			decision.Reason = "allowed by rule: " + a
			return decision
		}
	}

	return decision
}

// RequiresConfirmation reports whether toolName's execution policy under the
// given Policy is require_confirmation rather than a plain allow.
func (r *Resolver) RequiresConfirmation(policy *Policy, toolName string) bool {
	if policy == nil {
		return false
	}
	normalized := r.CanonicalName(toolName)
	effective := r.effectivePolicyForTool(policy, normalized)
	if effective == nil {
		return false
	}
	for _, pattern := range r.ExpandGroups(effective.RequireConfirmation) {
		if pattern == normalized || matchToolPattern(pattern, normalized) {
			return true
		}
	}
	return false
}

// Classify returns the ExecutionPolicy for toolName, combining the allow/deny
// decision with the require_confirmation list.
func (r *Resolver) Classify(policy *Policy, toolName string) ExecutionPolicy {
	decision := r.Decide(policy, toolName)
	if !decision.Allowed {
		return ExecutionForbid
	}
	if r.RequiresConfirmation(policy, toolName) {
		return ExecutionRequireConfirmation
	}
	return ExecutionAllow
}

func (r *Resolver) effectivePolicyForTool(policy *Policy, toolName string) *Policy {
	if policy == nil {
		return nil
	}
	if len(policy.ByProvider) == 0 {
		return policy
	}
	providerKey := toolProviderKey(toolName)
	if providerKey == "" {
		return policy
	}
	providerPolicy, ok := policy.ByProvider[providerKey]
	if !ok || providerPolicy == nil {
		return policy
	}

	base := *policy
	base.ByProvider = nil
	override := *providerPolicy
	override.ByProvider = nil
	return Merge(&base, &override)
}

// toolProviderKey extracts the provider namespace from a tool name, e.g.
// "researcher:summarize" -> "researcher", "read" -> "core".
func toolProviderKey(toolName string) string {
	normalized := NormalizeTool(toolName)
	if idx := strings.Index(normalized, ":"); idx > 0 {
		return normalized[:idx]
	}
	return "core"
}

// matchToolPattern checks if a pattern matches a tool name.
// Supports:
//   - "*" - matches any tool
//   - "source:*" - all tools from a dynamic source
//   - "source:tool" - exact match
func matchToolPattern(pattern, toolName string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(toolName, prefix)
	}
	return pattern == toolName
}

// FilterAllowed filters a list of tools to only those allowed by the policy,
// useful for presenting available tools to an agent.
func (r *Resolver) FilterAllowed(policy *Policy, tools []string) []string {
	var result []string
	for _, tool := range tools {
		if r.IsAllowed(policy, tool) {
			result = append(result, tool)
		}
	}
	return result
}

// GetDenied returns the list of explicitly denied tools with groups expanded.
func (r *Resolver) GetDenied(policy *Policy) []string {
	return r.ExpandGroups(policy.Deny)
}

// GetAllowed returns the list of explicitly allowed tools including
// profile defaults with groups expanded.
func (r *Resolver) GetAllowed(policy *Policy) []string {
	var allowed []string
	if policy.Profile != "" {
		if profilePolicy, ok := ProfileDefaults[policy.Profile]; ok && profilePolicy != nil {
			allowed = r.ExpandGroups(profilePolicy.Allow)
		}
	}
	if len(policy.Allow) > 0 {
		allowed = append(allowed, r.ExpandGroups(policy.Allow)...)
	}
	return allowed
}

// Merge merges multiple policies into one combined policy.
// Later policies override earlier ones for profile, and allow/deny lists are accumulated.
func Merge(policies ...*Policy) *Policy {
	result := &Policy{}

	for _, p := range policies {
		if p == nil {
			continue
		}
		if p.Profile != "" {
			result.Profile = p.Profile
		}
		result.Allow = append(result.Allow, p.Allow...)
		result.Deny = append(result.Deny, p.Deny...)
		result.RequireConfirmation = append(result.RequireConfirmation, p.RequireConfirmation...)

		if len(p.ByProvider) > 0 {
			if result.ByProvider == nil {
				result.ByProvider = make(map[string]*Policy)
			}
			for key, policy := range p.ByProvider {
				result.ByProvider[key] = policy
			}
		}
	}

	return result
}

// NewPolicy creates a new policy with the given profile as a base.
func NewPolicy(profile Profile) *Policy {
	return &Policy{Profile: profile}
}

// WithAllow adds tools to the allow list and returns the policy for chaining.
func (p *Policy) WithAllow(tools ...string) *Policy {
	p.Allow = append(p.Allow, tools...)
	return p
}

// WithDeny adds tools to the deny list and returns the policy for chaining.
func (p *Policy) WithDeny(tools ...string) *Policy {
	p.Deny = append(p.Deny, tools...)
	return p
}

// WithRequireConfirmation adds tools to the require_confirmation list.
func (p *Policy) WithRequireConfirmation(tools ...string) *Policy {
	p.RequireConfirmation = append(p.RequireConfirmation, tools...)
	return p
}
