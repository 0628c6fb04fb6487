package providers

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider for Claude models, using the
// official Anthropic SDK's streaming Messages API.
type AnthropicProvider struct {
	modelMeta
	client *anthropic.Client
}

// NewAnthropicProvider creates a provider for Anthropic models.
func NewAnthropicProvider(apiKey, modelID string) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		modelMeta: newModelMeta(modelID),
		client:    &client,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (<-chan Event, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.modelID),
		MaxTokens: int64(req.MaxTokens),
		Messages:  p.convertMessages(req.Messages),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	stream := p.client.Messages.NewStreaming(ctx, params)

	events := make(chan Event, 64)
	go p.drainStream(stream, events)
	return events, nil
}

func (p *AnthropicProvider) drainStream(stream *anthropic.MessageStream, events chan<- Event) {
	defer close(events)
	defer stream.Close()

	accum := anthropic.Message{}

	for stream.Next() {
		evt := stream.Current()
		_ = accum.Accumulate(evt)

		if cb, ok := evt.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if delta, ok := cb.Delta.AsAny().(anthropic.TextDelta); ok {
				events <- Event{Type: "text_delta", Text: delta.Text}
			}
		}
	}

	if err := stream.Err(); err != nil {
		events <- Event{Type: "error", Error: err.Error()}
		return
	}

	events <- p.doneEvent(int(accum.Usage.InputTokens), int(accum.Usage.OutputTokens))
}

// convertMessages translates provider-agnostic text turns into a single
// text block per Anthropic message; this system never sends native
// tool-call or tool-result content to a provider.
func (p *AnthropicProvider) convertMessages(msgs []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(msg.Role),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Text)},
		})
	}
	return result
}
