// Package selector implements the Tool Selector (C6): a guided multi-step
// LLM reasoning call that picks the tool best matching a user query, with a
// fully deterministic parser for the reasoning text and a safe fallback
// when the call or the parse fails.
package selector

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/llm"
)

const systemPrompt = `You are the tool-selection reasoning engine for a sandboxed file-operations agent.
All of your thinking MUST be written in English, regardless of the language of the user's request.
Reason in exactly three guided steps:
1. Decompose the user's intent.
2. Evaluate how well each available tool fits that intent.
3. Commit to a single selection.
State your final choice clearly, e.g. "I select the 'read_file' tool" or "'list_files' is the best choice".`

// italianTokens are the heuristic markers used to detect an Italian-language
// query. Detection only informs the prompt's user_language context field —
// it never changes the (always-English) reasoning language.
var italianTokens = []string{"lista", "cartelle", "mostra", "tutti", "file"}

var toolNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`'([a-zA-Z_]+)'\s+tool`),
	regexp.MustCompile(`use\s+([a-zA-Z_]+)`),
	regexp.MustCompile(`select\s+([a-zA-Z_]+)`),
	regexp.MustCompile(`"([a-zA-Z_]+)"\s+tool`),
	regexp.MustCompile(`choose\s+([a-zA-Z_]+)`),
}

var filenamePattern = regexp.MustCompile(`\b([\w.\-]+\.[a-zA-Z0-9]{1,8})\b`)
var quotedPatternPattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

type confidenceRule struct {
	words      []string
	confidence float64
}

var confidenceRules = []confidenceRule{
	{[]string{"clearly", "definitely", "certain", "best choice"}, 0.9},
	{[]string{"probably", "likely", "seems"}, 0.7},
	{[]string{"might", "possibly", "maybe"}, 0.4},
}

const fallbackTool = "help"

// Selector picks a tool for a user query via the agent-role LLM's
// "thinking" channel.
type Selector struct {
	client llm.Client
}

// New returns a Selector. client may be nil, in which case Select always
// returns the failure fallback.
func New(client llm.Client) *Selector {
	return &Selector{client: client}
}

// Select runs the multi-step reasoning call and parses its reply.
func (s *Selector) Select(ctx context.Context, query string, tools []domain.ToolDescriptor, contextSummary string) domain.ToolSelection {
	if s.client == nil {
		return fallback("no tool-selection model configured")
	}

	prompt := buildPrompt(query, tools, contextSummary)
	reasoning, err := s.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return fallback(err.Error())
	}

	return parse(reasoning, tools)
}

func buildPrompt(query string, tools []domain.ToolDescriptor, contextSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n", query)
	if isItalian(query) {
		b.WriteString("user_language: Italian (context only — still reason in English)\n")
	}
	if contextSummary != "" {
		fmt.Fprintf(&b, "Context: %s\n", contextSummary)
	}
	b.WriteString("Available tools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	return b.String()
}

func isItalian(query string) bool {
	lower := strings.ToLower(query)
	for _, tok := range italianTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func parse(reasoning string, tools []domain.ToolDescriptor) domain.ToolSelection {
	known := make(map[string]domain.ToolDescriptor, len(tools))
	for _, t := range tools {
		known[t.Name] = t
	}

	selected := extractToolName(reasoning, known)
	if selected == "" {
		selected = scoreTools(reasoning, known)
	}
	if selected == "" {
		return fallback("could not identify a tool in the reasoning text")
	}

	sel := domain.ToolSelection{
		SelectedTool:     selected,
		Confidence:       confidenceFor(reasoning),
		Reasoning:        reasoning,
		AlternativeTools: alternatives(reasoning, known, selected),
	}

	if desc, ok := known[selected]; ok {
		if p, ok := desc.Parameters["filename"]; ok && p.Required {
			sel.RequiresParameters = true
			if name := firstMatch(filenamePattern, reasoning); name != "" {
				sel.SuggestedParameters = map[string]any{"filename": name}
			}
		}
		if _, ok := desc.Parameters["pattern"]; ok {
			if m := quotedPatternPattern.FindStringSubmatch(reasoning); m != nil {
				val := m[1]
				if val == "" {
					val = m[2]
				}
				if sel.SuggestedParameters == nil {
					sel.SuggestedParameters = map[string]any{}
				}
				sel.SuggestedParameters["pattern"] = val
			}
		}
	}

	return sel
}

func extractToolName(reasoning string, known map[string]domain.ToolDescriptor) string {
	for _, p := range toolNamePatterns {
		if m := p.FindStringSubmatch(reasoning); m != nil {
			if _, ok := known[m[1]]; ok {
				return m[1]
			}
		}
	}
	return ""
}

// scoreTools is the fallback parser: score each known tool by mention count
// plus a bonus for appearing in a positive phrase like "<tool> is the best"
// or "use <tool>", then pick the max (0 → unresolved).
func scoreTools(reasoning string, known map[string]domain.ToolDescriptor) string {
	lower := strings.ToLower(reasoning)
	type scored struct {
		name  string
		score int
	}
	var results []scored
	for name := range known {
		lname := strings.ToLower(name)
		score := strings.Count(lower, lname)
		if score == 0 {
			continue
		}
		if strings.Contains(lower, lname+" is the best") || strings.Contains(lower, "use "+lname) {
			score += 2
		}
		results = append(results, scored{name, score})
	}
	if len(results) == 0 {
		return ""
	}
	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })
	if results[0].score == 0 {
		return ""
	}
	return results[0].name
}

func alternatives(reasoning string, known map[string]domain.ToolDescriptor, selected string) []string {
	lower := strings.ToLower(reasoning)
	var alts []string
	for name := range known {
		if name == selected {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			alts = append(alts, name)
		}
	}
	sort.Strings(alts)
	return alts
}

func confidenceFor(reasoning string) float64 {
	lower := strings.ToLower(reasoning)
	for _, rule := range confidenceRules {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.confidence
			}
		}
	}
	return 0.6
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func fallback(reason string) domain.ToolSelection {
	return domain.ToolSelection{
		SelectedTool: fallbackTool,
		Confidence:   0.1,
		Reasoning:    reason,
	}
}
