package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google's Gemini models via the
// official unified SDK.
type GeminiProvider struct {
	modelMeta
	client *genai.Client
}

// NewGeminiProvider creates a provider for Gemini models.
func NewGeminiProvider(ctx context.Context, apiKey, modelID string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("providers: failed to create gemini client: %w", err)
	}
	return &GeminiProvider{
		modelMeta: newModelMeta(modelID),
		client:    client,
	}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (<-chan Event, error) {
	contents := p.convertMessages(req.Messages)

	cfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	events := make(chan Event, 64)
	stream := p.client.Models.GenerateContentStream(ctx, p.modelID, contents, cfg)

	go func() {
		defer close(events)
		var inputTokens, outputTokens int

		for chunk, err := range stream {
			if err != nil {
				events <- Event{Type: "error", Error: err.Error()}
				return
			}
			if chunk.UsageMetadata != nil {
				inputTokens = int(chunk.UsageMetadata.PromptTokenCount)
				outputTokens = int(chunk.UsageMetadata.CandidatesTokenCount)
			}
			for _, cand := range chunk.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part.Text != "" {
						events <- Event{Type: "text_delta", Text: part.Text}
					}
				}
			}
		}

		events <- p.doneEvent(inputTokens, outputTokens)
	}()

	return events, nil
}

// convertMessages translates provider-agnostic text turns into Gemini
// contents.
func (p *GeminiProvider) convertMessages(msgs []Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Text, role))
	}
	return result
}
