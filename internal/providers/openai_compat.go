package providers

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompatProvider implements Provider for any OpenAI-compatible
// chat-completions API, distinguished only by BaseURL and any
// provider-specific extra request fields.
type OpenAICompatProvider struct {
	modelMeta
	client      *openai.Client
	extraParams map[string]any // injected into the raw request, e.g. a vendor's "thinking: disabled"
}

// NewOpenAICompatProvider creates a provider for any OpenAI-compatible API.
func NewOpenAICompatProvider(apiKey, modelID, baseURL string, extraParams map[string]any) *OpenAICompatProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &OpenAICompatProvider{
		modelMeta:   newModelMeta(modelID),
		client:      &client,
		extraParams: extraParams,
	}
}

func (p *OpenAICompatProvider) Name() string { return "openai_compat" }

func (p *OpenAICompatProvider) Complete(ctx context.Context, req CompletionRequest) (<-chan Event, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.modelID),
		Messages: p.convertMessages(req.SystemPrompt, req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	params.StreamOptions = &openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	var reqOpts []option.RequestOption
	for key, val := range p.extraParams {
		reqOpts = append(reqOpts, option.WithJSONSet(key, val))
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params, reqOpts...)

	events := make(chan Event, 64)
	go p.drainStream(stream, events)
	return events, nil
}

func (p *OpenAICompatProvider) drainStream(stream *openai.ChatCompletionStream, events chan<- Event) {
	defer close(events)
	defer stream.Close()

	var inputTokens, outputTokens int

	for stream.Next() {
		chunk := stream.Current()

		if chunk.Usage.PromptTokens > 0 || chunk.Usage.CompletionTokens > 0 {
			inputTokens = int(chunk.Usage.PromptTokens)
			outputTokens = int(chunk.Usage.CompletionTokens)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			events <- Event{Type: "text_delta", Text: text}
		}
	}

	if err := stream.Err(); err != nil {
		events <- Event{Type: "error", Error: err.Error()}
		return
	}

	events <- p.doneEvent(inputTokens, outputTokens)
}

// convertMessages translates provider-agnostic text turns into the
// Chat Completions message shape: one system message up front, then one
// user or assistant text message per turn.
func (p *OpenAICompatProvider) convertMessages(systemPrompt string, msgs []Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion

	if systemPrompt != "" {
		result = append(result, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(systemPrompt),
				},
			},
		})
	}

	for _, msg := range msgs {
		switch msg.Role {
		case "assistant":
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(msg.Text),
					},
				},
			})
		default:
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Text),
					},
				},
			})
		}
	}

	return result
}
