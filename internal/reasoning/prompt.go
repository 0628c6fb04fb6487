package reasoning

import (
	"fmt"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

const consolidatedSystemPrompt = `You are the reasoning engine of a sandboxed file-operations agent.
All thinking MUST be written in English regardless of the user's language.
On every turn you must reply with a single strict JSON object, no prose outside of it, matching exactly:
{"thinking": string, "goal": string, "tool_name": string, "tool_args": object, "continue_reasoning": bool, "final_response": string, "goal_compliance_check": string, "clarification_question": string, "confidence": number}
Leave a field as an empty string ("" or {} for tool_args) when it does not apply to this turn.
Only ever operate on the sandboxed workspace directory via the tools listed below — never claim to access anything outside it.`

func buildConsolidatedPrompt(query, workspacePath string, steps []domain.ReasoningStep, tcc *domain.ToolChainContext, tools []domain.ToolDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User query: %s\n", query)
	fmt.Fprintf(&b, "Workspace path: %s\n\n", workspacePath)

	b.WriteString("Recent reasoning history:\n")
	for _, step := range lastN(steps, 5) {
		fmt.Fprintf(&b, "- [%s] %s\n", step.Phase, summarizeStep(step))
	}
	if len(steps) == 0 {
		b.WriteString("(none yet)\n")
	}
	b.WriteString("\n")

	b.WriteString("Tool-chain context:\n")
	b.WriteString(summarizeToolChainContext(tcc))
	b.WriteString("\n\n")

	b.WriteString("Available tools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s", t.Name, t.Description)
		if len(t.Parameters) > 0 {
			var names []string
			for name := range t.Parameters {
				names = append(names, name)
			}
			fmt.Fprintf(&b, " (parameters: %s)", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func lastN(steps []domain.ReasoningStep, n int) []domain.ReasoningStep {
	if len(steps) <= n {
		return steps
	}
	return steps[len(steps)-n:]
}

func summarizeStep(step domain.ReasoningStep) string {
	switch step.Phase {
	case domain.PhaseAct:
		result := "pending"
		if step.ToolResult != nil {
			if step.ToolResult.IsError {
				result = "error: " + truncate(step.ToolResult.Content, 120)
			} else {
				result = truncate(step.ToolResult.Content, 120)
			}
		}
		return fmt.Sprintf("called %s → %s", step.ToolName, result)
	default:
		return truncate(step.Content, 160)
	}
}

func summarizeToolChainContext(tcc *domain.ToolChainContext) string {
	if tcc == nil {
		return "(empty)"
	}
	var b strings.Builder
	if len(tcc.DiscoveredFiles) > 0 {
		fmt.Fprintf(&b, "discovered_files: %s\n", strings.Join(tcc.DiscoveredFiles, ", "))
	}
	if len(tcc.FileContentCache) > 0 {
		var names []string
		for name := range tcc.FileContentCache {
			names = append(names, name)
		}
		fmt.Fprintf(&b, "cached_file_contents: %s\n", strings.Join(names, ", "))
	}
	if len(tcc.OperationHistory) > 0 {
		fmt.Fprintf(&b, "operation_history:\n")
		for _, op := range tcc.OperationHistory {
			fmt.Fprintf(&b, "  - %s\n", op)
		}
	}
	if b.Len() == 0 {
		return "(empty)"
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
