// Package llm adapts the streaming providers.Provider interface down to
// the single-shot text-in/text-out call that the Reasoning Loop,
// Supervisor, Tool Selector, and answer_question_about_files use. None of
// these callers negotiate native tool calls or multi-turn history — they
// send one system prompt plus one user prompt and want the assistant's
// text back.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/providers"
)

// Client is the single-shot completion capability consumed by the
// Reasoning Loop, Supervisor, Tool Selector, and the
// answer_question_about_files tool.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const defaultMaxTokens = 2048

// ProviderClient adapts a providers.Provider to Client by draining its
// event channel into a single accumulated string.
type ProviderClient struct {
	provider  providers.Provider
	maxTokens int
}

// NewProviderClient wraps provider for single-shot use.
func NewProviderClient(provider providers.Provider) *ProviderClient {
	return &ProviderClient{provider: provider, maxTokens: defaultMaxTokens}
}

func (c *ProviderClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	events, err := c.provider.Complete(ctx, providers.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []providers.Message{{Role: "user", Text: userPrompt}},
		MaxTokens:    c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: %s: %w", c.provider.Name(), err)
	}

	var out strings.Builder
	for ev := range events {
		switch ev.Type {
		case "text_delta":
			out.WriteString(ev.Text)
		case "error":
			return "", fmt.Errorf("llm: %s: %s", c.provider.Name(), ev.Error)
		}
	}
	return out.String(), nil
}

// FallbackClient tries each Client in order, moving to the next only when
// the prior one returns an error. Implements the Gemini → Anthropic →
// OpenAI fallback chain for the file_analysis role.
type FallbackClient struct {
	clients []Client
	names   []string
}

// NewFallbackClient builds a chain from ordered (name, client) pairs.
// Entries whose client is nil (no credentials configured for that provider)
// are skipped rather than attempted.
func NewFallbackClient(pairs ...NamedClient) *FallbackClient {
	fc := &FallbackClient{}
	for _, p := range pairs {
		if p.Client == nil {
			continue
		}
		fc.clients = append(fc.clients, p.Client)
		fc.names = append(fc.names, p.Name)
	}
	return fc
}

// NamedClient pairs a provider name (for error messages) with its Client.
type NamedClient struct {
	Name   string
	Client Client
}

func (f *FallbackClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if len(f.clients) == 0 {
		return "", fmt.Errorf("llm: no provider configured")
	}
	var errs []string
	for i, c := range f.clients {
		out, err := c.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Sprintf("%s: %v", f.names[i], err))
	}
	return "", fmt.Errorf("llm: all providers failed: %s", strings.Join(errs, "; "))
}
