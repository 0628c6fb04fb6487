package llm

import (
	"context"
	"fmt"

	"github.com/sandboxagent/sandboxagent/internal/providers"
)

// RoleModels maps each role to the model ID configured for it. Missing
// entries fall back to DefaultModelFor(role).
type RoleModels map[providers.Role]string

// DefaultModelFor returns the model this system ships with for role when
// the host configuration leaves it unset.
func DefaultModelFor(role providers.Role) string {
	switch role {
	case providers.RoleAgent:
		return "claude-opus-4-1"
	case providers.RoleSupervisor:
		return "claude-haiku-4-5"
	case providers.RoleFileAnalysis:
		return "gemini-2.5-flash"
	default:
		return "claude-haiku-4-5"
	}
}

// fileAnalysisFallbackOrder is the provider preference for
// answer_question_about_files: Gemini, then Anthropic, then OpenAI, gated
// on whichever of those has a configured API key.
var fileAnalysisFallbackOrder = []string{"gemini-2.5-flash", "claude-haiku-4-5", "gpt-4.1-mini"}

// Registry resolves a Role to a ready-to-use Client.
type Registry struct {
	clients map[providers.Role]Client
}

// NewRegistry builds one Client per role from the configured model mapping
// and API keys. Roles whose model has no corresponding API key are left
// unresolved in the registry (ClientFor returns an error for them), except
// file_analysis, which instead builds a fallback chain over every provider
// that does have a key, per the documented Gemini → Anthropic → OpenAI order.
func NewRegistry(ctx context.Context, roles RoleModels, apiKeys map[string]string) (*Registry, error) {
	r := &Registry{clients: make(map[providers.Role]Client)}

	for _, role := range []providers.Role{providers.RoleAgent, providers.RoleSupervisor, providers.RoleOrchestrator} {
		modelID := roles[role]
		if modelID == "" {
			modelID = DefaultModelFor(role)
		}
		if !providers.HasKeyFor(modelID, apiKeys) {
			continue
		}
		p, err := providers.NewProvider(ctx, modelID, apiKeys)
		if err != nil {
			return nil, fmt.Errorf("llm: role %q: %w", role, err)
		}
		r.clients[role] = NewProviderClient(p)
	}

	var pairs []NamedClient
	if preferred := roles[providers.RoleFileAnalysis]; preferred != "" {
		if providers.HasKeyFor(preferred, apiKeys) {
			p, err := providers.NewProvider(ctx, preferred, apiKeys)
			if err == nil {
				pairs = append(pairs, NamedClient{Name: preferred, Client: NewProviderClient(p)})
			}
		}
	}
	for _, modelID := range fileAnalysisFallbackOrder {
		if !providers.HasKeyFor(modelID, apiKeys) {
			continue
		}
		p, err := providers.NewProvider(ctx, modelID, apiKeys)
		if err != nil {
			continue
		}
		pairs = append(pairs, NamedClient{Name: modelID, Client: NewProviderClient(p)})
	}
	r.clients[providers.RoleFileAnalysis] = NewFallbackClient(pairs...)

	return r, nil
}

// ClientFor returns the Client configured for role, or an error if none
// could be resolved (no API key available for any candidate model).
func (r *Registry) ClientFor(role providers.Role) (Client, error) {
	c, ok := r.clients[role]
	if !ok {
		return nil, fmt.Errorf("llm: no client configured for role %q", role)
	}
	return c, nil
}
