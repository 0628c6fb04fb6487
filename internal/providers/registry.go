package providers

import (
	"context"
	"fmt"
)

// ModelInfo contains metadata for each supported model.
type ModelInfo struct {
	ID                string
	ProviderType      string // "anthropic" | "openai_compat" | "gemini"
	BaseURL           string
	MaxContext        int
	InputCostPerMTok  float64 // USD per million input tokens
	OutputCostPerMTok float64 // USD per million output tokens
	ExtraParams       map[string]any
}

// SupportedModels is the definitive list of models the agent can use,
// across every configured role.
var SupportedModels = map[string]ModelInfo{
	"claude-opus-4-1": {
		ID:                "claude-opus-4-1",
		ProviderType:      "anthropic",
		BaseURL:           "https://api.anthropic.com",
		MaxContext:        200000,
		InputCostPerMTok:  15.0,
		OutputCostPerMTok: 75.0,
	},
	"claude-haiku-4-5": {
		ID:                "claude-haiku-4-5",
		ProviderType:      "anthropic",
		BaseURL:           "https://api.anthropic.com",
		MaxContext:        200000,
		InputCostPerMTok:  1.0,
		OutputCostPerMTok: 5.0,
	},
	"gpt-4.1": {
		ID:                "gpt-4.1",
		ProviderType:      "openai_compat",
		BaseURL:           "https://api.openai.com/v1",
		MaxContext:        1047576,
		InputCostPerMTok:  2.0,
		OutputCostPerMTok: 8.0,
	},
	"gpt-4.1-mini": {
		ID:                "gpt-4.1-mini",
		ProviderType:      "openai_compat",
		BaseURL:           "https://api.openai.com/v1",
		MaxContext:        1047576,
		InputCostPerMTok:  0.40,
		OutputCostPerMTok: 1.60,
	},
	"gemini-2.5-pro": {
		ID:                "gemini-2.5-pro",
		ProviderType:      "gemini",
		MaxContext:        1000000,
		InputCostPerMTok:  1.25,
		OutputCostPerMTok: 10.0,
	},
	"gemini-2.5-flash": {
		ID:                "gemini-2.5-flash",
		ProviderType:      "gemini",
		MaxContext:        1000000,
		InputCostPerMTok:  0.30,
		OutputCostPerMTok: 2.50,
	},
}

// Role names the core uses to look up a configured provider. Roles used by
// the core: agent (main reasoning loop), supervisor (moderation, a
// lightweight model), file_analysis (answer_question_about_files),
// orchestrator (reserved, unused by any component today).
type Role string

const (
	RoleAgent        Role = "agent"
	RoleSupervisor   Role = "supervisor"
	RoleFileAnalysis Role = "file_analysis"
	RoleOrchestrator Role = "orchestrator"
)

// apiKeyMapping maps provider types to the key name used in the apiKeys map.
var apiKeyMapping = map[string]string{
	"anthropic":     "anthropic",
	"openai_compat": "openai",
	"gemini":        "gemini",
}

// NewProvider creates the correct Provider for the given model ID and API keys.
// Returns error if the model is not in SupportedModels or the required API key is missing.
func NewProvider(ctx context.Context, modelID string, apiKeys map[string]string) (Provider, error) {
	model, ok := SupportedModels[modelID]
	if !ok {
		return nil, fmt.Errorf("providers: unknown model %q", modelID)
	}

	keyName, ok := apiKeyMapping[model.ProviderType]
	if !ok {
		return nil, fmt.Errorf("providers: no API key mapping for provider type %q", model.ProviderType)
	}

	apiKey := apiKeys[keyName]
	if apiKey == "" {
		return nil, fmt.Errorf("providers: API key %q is required for model %q", keyName, modelID)
	}

	switch model.ProviderType {
	case "anthropic":
		return NewAnthropicProvider(apiKey, model.ID), nil
	case "openai_compat":
		return NewOpenAICompatProvider(apiKey, model.ID, model.BaseURL, model.ExtraParams), nil
	case "gemini":
		return NewGeminiProvider(ctx, apiKey, model.ID)
	default:
		return nil, fmt.Errorf("providers: unknown provider type %q for model %q", model.ProviderType, modelID)
	}
}

// HasKeyFor reports whether apiKeys carries a non-empty key for modelID's provider.
func HasKeyFor(modelID string, apiKeys map[string]string) bool {
	model, ok := SupportedModels[modelID]
	if !ok {
		return false
	}
	keyName, ok := apiKeyMapping[model.ProviderType]
	if !ok {
		return false
	}
	return apiKeys[keyName] != ""
}

// ModelIDs returns a stable, meaningful order of all supported model IDs.
func ModelIDs() []string {
	return []string{
		"claude-opus-4-1",
		"claude-haiku-4-5",
		"gpt-4.1",
		"gpt-4.1-mini",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
	}
}
