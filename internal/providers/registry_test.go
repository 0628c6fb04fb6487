package providers

import (
	"context"
	"testing"
)

func TestSupportedModelsContainsAllModels(t *testing.T) {
	expectedIDs := []string{
		"claude-opus-4-1",
		"claude-haiku-4-5",
		"gpt-4.1",
		"gpt-4.1-mini",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
	}

	for _, id := range expectedIDs {
		if _, ok := SupportedModels[id]; !ok {
			t.Errorf("SupportedModels missing model %q", id)
		}
	}

	if len(SupportedModels) != len(expectedIDs) {
		t.Errorf("SupportedModels has %d entries, expected %d", len(SupportedModels), len(expectedIDs))
	}
}

func TestNewProviderUnknownModel(t *testing.T) {
	_, err := NewProvider(context.Background(), "nonexistent-model", map[string]string{})
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestNewProviderMissingAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), "claude-opus-4-1", map[string]string{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProviderAnthropic(t *testing.T) {
	keys := map[string]string{"anthropic": "test-key-123"}
	p, err := NewProvider(context.Background(), "claude-opus-4-1", keys)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("expected provider name 'anthropic', got %q", p.Name())
	}
	if p.ModelID() != "claude-opus-4-1" {
		t.Errorf("expected model ID 'claude-opus-4-1', got %q", p.ModelID())
	}
	if p.MaxContextTokens() != 200000 {
		t.Errorf("expected 200000 context tokens, got %d", p.MaxContextTokens())
	}
}

func TestNewProviderOpenAICompat(t *testing.T) {
	keys := map[string]string{"openai": "test-key"}
	for _, modelID := range []string{"gpt-4.1", "gpt-4.1-mini"} {
		p, err := NewProvider(context.Background(), modelID, keys)
		if err != nil {
			t.Fatalf("%s: unexpected error: %s", modelID, err)
		}
		if p.Name() != "openai_compat" {
			t.Errorf("%s: expected provider name 'openai_compat', got %q", modelID, p.Name())
		}
		if p.ModelID() != modelID {
			t.Errorf("expected model ID %q, got %q", modelID, p.ModelID())
		}
	}
}

func TestNewProviderGemini(t *testing.T) {
	keys := map[string]string{"gemini": "test-key"}
	p, err := NewProvider(context.Background(), "gemini-2.5-flash", keys)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p.Name() != "gemini" {
		t.Errorf("expected provider name 'gemini', got %q", p.Name())
	}
}

func TestModelIDsOrder(t *testing.T) {
	ids := ModelIDs()
	if len(ids) != 6 {
		t.Fatalf("expected 6 model IDs, got %d", len(ids))
	}
	if ids[0] != "claude-opus-4-1" {
		t.Errorf("expected first model to be 'claude-opus-4-1', got %q", ids[0])
	}
}

func TestHasKeyFor(t *testing.T) {
	keys := map[string]string{"anthropic": "set"}
	if !HasKeyFor("claude-opus-4-1", keys) {
		t.Error("expected HasKeyFor to find the configured anthropic key")
	}
	if HasKeyFor("gpt-4.1", keys) {
		t.Error("expected HasKeyFor to report false for an unconfigured provider")
	}
	if HasKeyFor("nonexistent-model", keys) {
		t.Error("expected HasKeyFor to report false for an unknown model")
	}
}
