package reasoning

import (
	"context"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/llm"
)

// englishStopwords are substrings whose presence in a token counts it as
// "English-bearing" for the non-English heuristic.
var englishStopwords = []string{
	"the", "is", "and", "to", "of", "a", "in", "that", "it", "for",
	"on", "with", "as", "are", "this", "by", "an", "be", "or", "what",
	"show", "list", "read", "write", "delete", "file", "files",
}

const translateSystemPrompt = "Translate the user's message to English. Reply with only the translation, no commentary."

// isNonEnglish is a heuristic: fewer than 30% of tokens
// contain a fixed English stop-word substring.
func isNonEnglish(query string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return false
	}
	hits := 0
	for _, tok := range tokens {
		for _, stop := range englishStopwords {
			if strings.Contains(tok, stop) {
				hits++
				break
			}
		}
	}
	return float64(hits)/float64(len(tokens)) < 0.3
}

// translate performs the one-shot translation-to-English LLM call.
func translate(ctx context.Context, client llm.Client, query string) (string, error) {
	return client.Complete(ctx, translateSystemPrompt, query)
}
