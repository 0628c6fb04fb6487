// Package reasoning implements the Reasoning Loop (C8): the single-call
// consolidated think/act/observe iteration that drives tool use toward a
// final response, with goal generation and compliance checking folded in.
package reasoning

import (
	"context"
	"time"

	"github.com/sandboxagent/sandboxagent/internal/core/tools"
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/goalvalidator"
	"github.com/sandboxagent/sandboxagent/internal/llm"
	"github.com/sandboxagent/sandboxagent/internal/selector"
)

const defaultMaxIterations = 10

// Outcome is everything the Reasoning Loop produces for one request, ready
// to be folded into an AgentResponse by the Agent Façade.
type Outcome struct {
	Response       string
	ToolsUsed      []string
	ReasoningSteps []domain.ReasoningStep
	Goal           string
	GoalCompliance *domain.GoalCompliance
}

// Loop drives iterative consolidated-reply reasoning for one request.
type Loop struct {
	client        llm.Client
	executor      *tools.ToolExecutor
	selector      *selector.Selector
	maxIterations int
}

// New builds a Loop. client is the agent-role LLM; executor is the shared
// Tool Executor (process lifetime); selector falls back to a tool pick
// when the LLM's consolidated reply wants to act but names no tool.
func New(client llm.Client, executor *tools.ToolExecutor, sel *selector.Selector, maxIterations int) *Loop {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Loop{client: client, executor: executor, selector: sel, maxIterations: maxIterations}
}

// Run executes the full iterative loop for one user query.
func (l *Loop) Run(ctx context.Context, query string) Outcome {
	tcc := domain.NewToolChainContext()
	var steps []domain.ReasoningStep

	translated := query
	if isNonEnglish(query) {
		if out, err := translate(ctx, l.client, query); err == nil && out != "" {
			translated = out
			steps = append(steps, domain.ReasoningStep{
				Phase:      domain.PhaseThink,
				StepNumber: len(steps) + 1,
				Content:    "Translated query to English: " + translated,
				Timestamp:  time.Now(),
			})
		}
	}

	var (
		lastStep        domain.ConsolidatedStep
		toolsUsed       []string
		toolExecutedNow bool
	)

	tracker := newIterationTracker(l.maxIterations)
	for {
		_, isLastIteration := tracker.Next()
		prompt := buildConsolidatedPrompt(translated, l.executor.RootPath(), steps, tcc, l.executor.Descriptors())

		raw, err := l.client.Complete(ctx, consolidatedSystemPrompt, prompt)
		var step domain.ConsolidatedStep
		if err != nil {
			step = domain.ConsolidatedStep{
				Thinking:          "reasoning model unavailable: " + err.Error(),
				ContinueReasoning: false,
				FinalResponse:     "I'm unable to process this request right now: " + err.Error(),
			}
		} else {
			step = parseConsolidatedStep(raw)
		}

		if step.Goal == "" {
			goal, needsClarification := generateDefaultGoal(translated)
			step.Goal = goal
			if needsClarification && step.ClarificationQ == "" && step.FinalResponse == "" {
				step.ClarificationQ = clarificationPromptFor(goal, translated)
				step.ContinueReasoning = false
				// AMBIGUOUS_REQUEST / NEEDS_FILE_SPECIFICATION trigger a
				// clarification response instead of tool execution.
				step.ToolName = ""
			}
		}

		steps = append(steps, domain.ReasoningStep{
			Phase:      domain.PhaseThink,
			StepNumber: len(steps) + 1,
			Content:    step.Thinking,
			Timestamp:  time.Now(),
		})

		toolExecutedNow = false
		if step.ToolName == "" && step.Shape() == domain.ShapeContinue && l.selector != nil {
			sel := l.selector.Select(ctx, translated, l.executor.Descriptors(), summarizeToolChainContext(tcc))
			if sel.SelectedTool != "" && sel.SelectedTool != "help" {
				step.ToolName = sel.SelectedTool
				if step.ToolArgs == nil {
					step.ToolArgs = sel.SuggestedParameters
				}
			}
		}

		if step.ToolName != "" {
			result, _ := l.executor.Execute(step.ToolName, step.ToolArgs, tcc)
			toolsUsed = append(toolsUsed, step.ToolName)
			toolExecutedNow = true
			steps = append(steps, domain.ReasoningStep{
				Phase:      domain.PhaseAct,
				StepNumber: len(steps) + 1,
				Content:    "invoked " + step.ToolName,
				ToolName:   step.ToolName,
				ToolArgs:   step.ToolArgs,
				ToolResult: &domain.ToolResult{Content: result.Content, IsError: result.IsError},
				Timestamp:  time.Now(),
			})
		}

		lastStep = step

		if !step.ContinueReasoning || step.FinalResponse != "" || isLastIteration {
			break
		}
	}

	return l.compose(translated, lastStep, steps, toolsUsed, tcc, toolExecutedNow)
}

func clarificationPromptFor(goal, query string) string {
	switch goal {
	case goalAmbiguousRequest:
		return "What would you like me to do? I can list, read, write, or delete files in the workspace."
	case goalNeedsFileSpecification:
		return "Which file would you like me to work with?"
	default:
		return "Could you clarify what you'd like me to do?"
	}
}

func (l *Loop) compose(query string, step domain.ConsolidatedStep, steps []domain.ReasoningStep, toolsUsed []string, tcc *domain.ToolChainContext, toolExecutedNow bool) Outcome {
	if step.ClarificationQ != "" && !toolExecutedNow {
		return Outcome{
			Response:       formatClarification(step.ClarificationQ, query),
			ToolsUsed:      toolsUsed,
			ReasoningSteps: steps,
			Goal:           step.Goal,
		}
	}

	response := step.FinalResponse
	if response == "" {
		response = lastToolResultOrSummary(steps, tcc)
	}
	if response == "" {
		response = lastThinking(steps)
	}

	out := Outcome{
		Response:       response,
		ToolsUsed:      toolsUsed,
		ReasoningSteps: steps,
		Goal:           step.Goal,
	}

	if step.Goal != "" {
		gc := goalvalidator.Validate(step.Goal, response, toolsUsed)
		out.GoalCompliance = &gc
	}

	return out
}

func lastToolResultOrSummary(steps []domain.ReasoningStep, tcc *domain.ToolChainContext) string {
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.Phase == domain.PhaseAct && s.ToolResult != nil && !s.ToolResult.IsError {
			return s.ToolResult.Content
		}
	}
	if tcc != nil && len(tcc.OperationHistory) > 0 {
		return "Completed: " + tcc.OperationHistory[len(tcc.OperationHistory)-1]
	}
	return ""
}

func lastThinking(steps []domain.ReasoningStep) string {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Phase == domain.PhaseThink {
			return steps[i].Content
		}
	}
	return "I wasn't able to produce a response for this request."
}
