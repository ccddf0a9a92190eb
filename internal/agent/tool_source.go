package agent

import "context"

// ToolSource surfaces a dynamic set of tools discovered at construction time
// rather than registered one-by-one in code — for example, an MCP server's
// tool list. A source is queried once; tools it returns are normalized into
// the ordinary Tool interface before registration, so the registry and the
// runner never distinguish a plugin-sourced tool from a statically
// registered one.
type ToolSource interface {
	// Tools returns the tools this source currently offers.
	Tools(ctx context.Context) ([]Tool, error)
}

// ToolSourceFunc adapts an ordinary function to a ToolSource.
type ToolSourceFunc func(ctx context.Context) ([]Tool, error)

// Tools calls the function.
func (f ToolSourceFunc) Tools(ctx context.Context) ([]Tool, error) {
	return f(ctx)
}

// RegisterSource pulls every tool currently offered by src and registers it.
// Tools are re-queried each call, so callers needing a fixed snapshot should
// not call this more than once per source per run.
func (r *ToolRegistry) RegisterSource(ctx context.Context, src ToolSource) error {
	tools, err := src.Tools(ctx)
	if err != nil {
		return err
	}
	for _, t := range tools {
		r.Register(t)
	}
	return nil
}
