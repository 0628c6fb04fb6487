package providers

import "context"

// Provider is the interface every LLM adapter must implement. This
// system only ever drives a provider with a single system prompt plus
// one user turn and wants the assistant's text back — no native
// tool-calling round trip, no multi-turn history — so the interface is
// kept to that one shape rather than the general chat-completion
// surface each SDK actually exposes.
type Provider interface {
	// Name returns the provider identifier ("anthropic", "openai_compat", "gemini")
	Name() string

	// ModelID returns the model string sent to the API
	ModelID() string

	// Complete sends one system+user exchange to the LLM and returns a
	// stream of events. The caller reads from the channel until it is
	// closed. On error, an Event with Type="error" is sent before closing.
	Complete(ctx context.Context, req CompletionRequest) (<-chan Event, error)

	// MaxContextTokens returns the model's context window size
	MaxContextTokens() int
}

// CompletionRequest is the provider-agnostic request format: a system
// prompt and the conversation turns sent alongside it.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
}

// Message is a single plain-text turn in the conversation.
type Message struct {
	Role string // "user" | "assistant"
	Text string
}

// Event is one item in the completion stream.
type Event struct {
	Type  string // "text_delta" | "done" | "error"
	Text  string // for type="text_delta"
	Error string // for type="error"
	Usage *Usage // for type="done"
}

// Usage contains token consumption for the completed request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// modelMeta is the metadata and cost-accounting logic every adapter
// needs, factored out so each provider's Complete only has to handle
// its own SDK's streaming shape and not repeat the token-to-dollar
// arithmetic three times over.
type modelMeta struct {
	modelID    string
	maxCtx     int
	inputCost  float64
	outputCost float64
}

func newModelMeta(modelID string) modelMeta {
	m := SupportedModels[modelID]
	return modelMeta{
		modelID:    modelID,
		maxCtx:     m.MaxContext,
		inputCost:  m.InputCostPerMTok,
		outputCost: m.OutputCostPerMTok,
	}
}

func (m modelMeta) ModelID() string      { return m.modelID }
func (m modelMeta) MaxContextTokens() int { return m.maxCtx }

// doneEvent builds the terminal "done" Event for a completed stream,
// converting accumulated token counts into the request's USD cost.
func (m modelMeta) doneEvent(inputTokens, outputTokens int) Event {
	cost := (float64(inputTokens)/1_000_000)*m.inputCost +
		(float64(outputTokens)/1_000_000)*m.outputCost
	return Event{
		Type: "done",
		Usage: &Usage{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			CostUSD:      cost,
		},
	}
}
