// Package domain holds the cross-cutting data-model types shared by the
// Supervisor, Reasoning Loop, Tool Selector, Goal Validator, and Agent
// Façade — the request/response shapes that would otherwise force an
// import cycle between those packages.
package domain

import "time"

// ToolDescriptor is the immutable, self-describing metadata for one tool.
// Owned by the Tool Registry; consumers (Reasoning Loop, Tool Selector,
// Protocol Adapter) read it rather than hard-coding descriptions.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  map[string]ParamDescriptor
	Examples    []string
}

// ParamDescriptor describes one parameter of a tool.
type ParamDescriptor struct {
	Type        string
	Required    bool
	Description string
}

// ToolInvocation is produced by the Reasoning Loop and consumed by the
// Tool Executor.
type ToolInvocation struct {
	ToolName  string
	Arguments map[string]any
}

// ToolResult is produced by the Tool Executor.
type ToolResult struct {
	Content string
	IsError bool
}

// ReasoningPhase is the phase tag of one ReasoningStep.
type ReasoningPhase string

const (
	PhaseThink   ReasoningPhase = "THINK"
	PhaseAct     ReasoningPhase = "ACT"
	PhaseObserve ReasoningPhase = "OBSERVE"
)

// ReasoningStep is one append-only entry of the scratchpad.
type ReasoningStep struct {
	Phase      ReasoningPhase
	StepNumber int
	Content    string
	ToolName   string
	ToolArgs   map[string]any
	ToolResult *ToolResult
	Timestamp  time.Time
}

// ToolChainContext is the per-request in-memory scratchpad described in
// Created fresh per top-level request, discarded at request end.
type ToolChainContext struct {
	ToolOutputs       map[string]string
	FileContentCache  map[string]string
	DiscoveredFiles   []string
	OperationHistory  []string
}

// NewToolChainContext returns an empty, ready-to-use context.
func NewToolChainContext() *ToolChainContext {
	return &ToolChainContext{
		ToolOutputs:      make(map[string]string),
		FileContentCache: make(map[string]string),
	}
}

// RecordDiscoveredFiles appends newly seen filenames, skipping duplicates.
func (c *ToolChainContext) RecordDiscoveredFiles(names []string) {
	seen := make(map[string]bool, len(c.DiscoveredFiles))
	for _, n := range c.DiscoveredFiles {
		seen[n] = true
	}
	for _, n := range names {
		if !seen[n] {
			c.DiscoveredFiles = append(c.DiscoveredFiles, n)
			seen[n] = true
		}
	}
}

// RecordOperation trims and appends one operation-history entry.
func (c *ToolChainContext) RecordOperation(entry string) {
	const maxLen = 200
	if len(entry) > maxLen {
		entry = entry[:maxLen] + "..."
	}
	c.OperationHistory = append(c.OperationHistory, entry)
}

// ConsolidatedStep is the LLM's structured reply, one per reasoning
// iteration. It is a sum type modeled as a tagged variant via the
// Shape() method — callers should switch on Shape() for exhaustive
// handling rather than probing individual optional fields.
type ConsolidatedStep struct {
	Thinking            string
	Goal                string
	ToolName            string
	ToolArgs            map[string]any
	ContinueReasoning   bool
	FinalResponse       string
	GoalComplianceCheck string
	ClarificationQ      string
	Confidence          float64
}

// StepShape names the mutually exclusive shape of a ConsolidatedStep.
type StepShape string

const (
	ShapeToolCall      StepShape = "tool_call_continuation"
	ShapeFinalResponse StepShape = "final_response"
	ShapeClarification StepShape = "clarification_request"
	ShapeContinue      StepShape = "continue_thinking"
)

// Shape classifies the step so callers can exhaustively switch on intent
// rather than checking optional fields in an ad hoc order.
func (s ConsolidatedStep) Shape() StepShape {
	switch {
	case s.FinalResponse != "":
		return ShapeFinalResponse
	case s.ClarificationQ != "" && s.ToolName == "":
		return ShapeClarification
	case s.ToolName != "":
		return ShapeToolCall
	default:
		return ShapeContinue
	}
}

// ModerationRequest is the input to the Supervisor.
type ModerationRequest struct {
	UserQuery          string
	ConversationID     string
	Timestamp          time.Time
	ConversationContext string
}

// ModerationDecision is the Supervisor's verdict.
type ModerationDecision string

const (
	DecisionAllowed        ModerationDecision = "ALLOWED"
	DecisionRejected       ModerationDecision = "REJECTED"
	DecisionRequiresReview ModerationDecision = "REQUIRES_REVIEW"
)

// IntentType is the closed set of recognized user intents.
type IntentType string

const (
	IntentFileRead        IntentType = "FILE_READ"
	IntentFileWrite       IntentType = "FILE_WRITE"
	IntentFileDelete      IntentType = "FILE_DELETE"
	IntentFileList        IntentType = "FILE_LIST"
	IntentFileQuestion    IntentType = "FILE_QUESTION"
	IntentGeneralQuestion IntentType = "GENERAL_QUESTION"
	IntentUnknown         IntentType = "UNKNOWN"
	IntentProjectAnalysis IntentType = "PROJECT_ANALYSIS"
)

// Intent is the Supervisor's classification of a request.
type Intent struct {
	Type        IntentType
	Confidence  float64
	Parameters  map[string]any
	ToolsNeeded []string
}

// SafetyRisk is the closed set of risk categories the Content Filter and
// Supervisor can attach to a decision.
type SafetyRisk string

const (
	RiskPathTraversal    SafetyRisk = "PATH_TRAVERSAL"
	RiskMaliciousCode    SafetyRisk = "MALICIOUS_CODE"
	RiskSystemAccess     SafetyRisk = "SYSTEM_ACCESS"
	RiskDataExfiltration SafetyRisk = "DATA_EXFILTRATION"
	RiskPromptInjection  SafetyRisk = "PROMPT_INJECTION"
	RiskHarmfulContent   SafetyRisk = "HARMFUL_CONTENT"
	RiskOffTopic         SafetyRisk = "OFF_TOPIC"
	RiskUnknown          SafetyRisk = "UNKNOWN_RISK"
)

// ModerationResponse is the Supervisor's full verdict.
type ModerationResponse struct {
	Decision    ModerationDecision
	Allowed     bool
	Intent      *Intent
	Reason      string
	RiskFactors []SafetyRisk
}

// GoalComplianceLevel is the Goal Validator's verdict scale.
type GoalComplianceLevel string

const (
	ComplianceFully    GoalComplianceLevel = "FULLY"
	CompliancePartial  GoalComplianceLevel = "PARTIALLY"
	ComplianceNon      GoalComplianceLevel = "NON"
	ComplianceUnclear  GoalComplianceLevel = "UNCLEAR"
)

// GoalCompliance is the Goal Validator's output, attached to AgentResponse.
type GoalCompliance struct {
	Level       GoalComplianceLevel
	Confidence  float64
	Explanation string
	Missing     []string
	Suggestions []string
}

// IsCompliant holds for all outputs: level ∈ {FULLY, PARTIALLY}.
func (g GoalCompliance) IsCompliant() bool {
	return g.Level == ComplianceFully || g.Level == CompliancePartial
}

// ToolSelection is the Tool Selector's recommendation for one query.
type ToolSelection struct {
	SelectedTool        string
	Confidence          float64
	Reasoning           string
	AlternativeTools    []string
	RequiresParameters  bool
	SuggestedParameters map[string]any
}

// AgentResponse is the top-level structured reply returned by the Agent
// Façade for one request.
type AgentResponse struct {
	ConversationID string
	Response       string
	ToolsUsed      []string
	ReasoningSteps []ReasoningStep
	Success        bool
	ErrorMessage   string
	Goal           string
	GoalCompliance *GoalCompliance
}
