// Package goalvalidator implements the Goal Validator (C7): a pure,
// rule-based classifier (no LLM call) that scores how well a Reasoning
// Loop response satisfies the goal it was generated for.
package goalvalidator

import (
	"regexp"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

var informationKeywords = []string{"what", "show", "list", "display", "tell me", "which"}
var actionKeywords = []string{"create", "write", "delete", "remove", "save", "modify", "update"}
var analysisKeywords = []string{"analyze", "explain", "why", "how does", "summarize", "review"}
var fileOpsKeywords = []string{"file", "files", "directory", "workspace", "folder"}
var formatKeywords = []string{"tree", "list", "table", "bullet", "numbered"}

var structuredOutputPattern = regexp.MustCompile(`(?m)^\s*[-*│├└┌┐┘┴┬•]|^\s*\d+\.\s`)
var errorSignalPattern = regexp.MustCompile(`(?i)error|failed|exception|not found|denied`)
var sentenceSplitPattern = regexp.MustCompile(`[.!?]+\s`)

type goalClass struct {
	informationRequest bool
	actionRequest      bool
	analysisRequest    bool
	requiresFileOps    bool
	requiresFormat     bool
}

func classifyGoal(goal string) goalClass {
	lower := strings.ToLower(goal)
	return goalClass{
		informationRequest: containsAny(lower, informationKeywords),
		actionRequest:      containsAny(lower, actionKeywords),
		analysisRequest:    containsAny(lower, analysisKeywords),
		requiresFileOps:    containsAny(lower, fileOpsKeywords),
		requiresFormat:     containsAny(lower, formatKeywords),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

type responseSignals struct {
	hasStructuredOutput bool
	hasFileContent      bool
	hasErrorSignal      bool
	length              int
	toolsUsed           bool
	hasExplanation      bool
}

func classifyResponse(response string, toolsUsed []string) responseSignals {
	sentences := sentenceSplitPattern.Split(strings.TrimSpace(response), -1)
	nonEmpty := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			nonEmpty++
		}
	}
	return responseSignals{
		hasStructuredOutput: structuredOutputPattern.MatchString(response),
		hasFileContent:      strings.Contains(response, "===") || strings.Contains(response, "\n\n"),
		hasErrorSignal:      errorSignalPattern.MatchString(response),
		length:              len(response),
		toolsUsed:           len(toolsUsed) > 0,
		hasExplanation:      nonEmpty > 2,
	}
}

const baseConfidence = 0.6

// Validate scores response against goal using the goal/response/tool-use
// classification table below.
func Validate(goal, response string, toolsUsed []string) domain.GoalCompliance {
	gc := classifyGoal(goal)
	rs := classifyResponse(response, toolsUsed)

	level := decide(gc, rs)
	confidence := adjustConfidence(baseConfidence, gc, rs)

	return domain.GoalCompliance{
		Level:       level,
		Confidence:  confidence,
		Explanation: explain(level, gc, rs),
		Missing:     missing(gc, rs),
		Suggestions: suggestions(level, gc, rs),
	}
}

func decide(gc goalClass, rs responseSignals) domain.GoalComplianceLevel {
	if rs.hasErrorSignal && rs.length < 50 {
		return domain.ComplianceNon
	}

	switch {
	case gc.informationRequest:
		switch {
		case rs.hasFileContent || rs.hasStructuredOutput || rs.toolsUsed:
			return domain.ComplianceFully
		case rs.length > 20:
			return domain.CompliancePartial
		default:
			return domain.ComplianceNon
		}
	case gc.actionRequest:
		switch {
		case rs.toolsUsed && !rs.hasErrorSignal:
			return domain.ComplianceFully
		case rs.toolsUsed:
			return domain.CompliancePartial
		default:
			return domain.ComplianceNon
		}
	case gc.analysisRequest:
		switch {
		case rs.length > 100 && rs.hasExplanation:
			return domain.ComplianceFully
		case rs.length > 50:
			return domain.CompliancePartial
		default:
			return domain.ComplianceNon
		}
	default:
		return domain.ComplianceUnclear
	}
}

func adjustConfidence(base float64, gc goalClass, rs responseSignals) float64 {
	c := base
	if rs.toolsUsed && gc.requiresFileOps {
		c += 0.3
	}
	if rs.hasStructuredOutput && gc.requiresFormat {
		c += 0.2
	}
	if rs.length > 100 {
		c += 0.1
	}
	if rs.hasErrorSignal {
		c -= 0.2
	}
	if gc.requiresFileOps && !rs.toolsUsed {
		c -= 0.3
	}
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func explain(level domain.GoalComplianceLevel, gc goalClass, rs responseSignals) string {
	switch level {
	case domain.ComplianceFully:
		return "the response fully addresses the stated goal"
	case domain.CompliancePartial:
		return "the response partially addresses the stated goal"
	case domain.ComplianceNon:
		if rs.hasErrorSignal {
			return "the response reports an error and does not satisfy the goal"
		}
		return "the response does not satisfy the goal"
	default:
		return "the goal could not be classified against a known request family"
	}
}

func missing(gc goalClass, rs responseSignals) []string {
	var m []string
	if gc.requiresFileOps && !rs.toolsUsed {
		m = append(m, "no file operations were performed")
	}
	if gc.requiresFormat && !rs.hasStructuredOutput {
		m = append(m, "response is not in the requested structured format")
	}
	if gc.analysisRequest && !rs.hasExplanation {
		m = append(m, "response lacks a multi-sentence explanation")
	}
	return m
}

func suggestions(level domain.GoalComplianceLevel, gc goalClass, rs responseSignals) []string {
	if level == domain.ComplianceFully {
		return nil
	}
	var s []string
	if gc.requiresFileOps && !rs.toolsUsed {
		s = append(s, "invoke a workspace tool before responding")
	}
	if gc.analysisRequest && rs.length < 100 {
		s = append(s, "provide a longer, more detailed explanation")
	}
	return s
}
