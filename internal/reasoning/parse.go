package reasoning

import (
	"encoding/json"
	"regexp"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

// wireStep is the JSON shape requested of the LLM; kept separate from
// domain.ConsolidatedStep so the shared domain types stay free of
// wire-format tags.
type wireStep struct {
	Thinking              string         `json:"thinking"`
	Goal                  string         `json:"goal"`
	ToolName              string         `json:"tool_name"`
	ToolArgs              map[string]any `json:"tool_args"`
	ContinueReasoning     bool           `json:"continue_reasoning"`
	FinalResponse         string         `json:"final_response"`
	GoalComplianceCheck   string         `json:"goal_compliance_check"`
	ClarificationQuestion string         `json:"clarification_question"`
	Confidence            float64        `json:"confidence"`
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

var (
	goalFieldPattern          = regexp.MustCompile(`"goal"\s*:\s*"([^"]*)"`)
	clarificationFieldPattern = regexp.MustCompile(`"clarification_question"\s*:\s*"([^"]*)"`)
	finalResponseFieldPattern = regexp.MustCompile(`"final_response"\s*:\s*"([^"]*)"`)
)

// parseConsolidatedStep parses the LLM's raw reply into a
// domain.ConsolidatedStep. On JSON failure it falls back to a lenient
// regex extractor for goal/clarification_question/final_response; on
// total failure it returns a step that stops the loop with the raw
// reply as the final response.
func parseConsolidatedStep(raw string) domain.ConsolidatedStep {
	candidate := raw
	if m := jsonObjectPattern.FindString(raw); m != "" {
		candidate = m
	}

	var w wireStep
	if err := json.Unmarshal([]byte(candidate), &w); err == nil {
		return domain.ConsolidatedStep{
			Thinking:            w.Thinking,
			Goal:                w.Goal,
			ToolName:            w.ToolName,
			ToolArgs:            w.ToolArgs,
			ContinueReasoning:   w.ContinueReasoning,
			FinalResponse:       w.FinalResponse,
			GoalComplianceCheck: w.GoalComplianceCheck,
			ClarificationQ:      w.ClarificationQuestion,
			Confidence:          w.Confidence,
		}
	}

	goal := firstCapture(goalFieldPattern, raw)
	clarification := firstCapture(clarificationFieldPattern, raw)
	finalResponse := firstCapture(finalResponseFieldPattern, raw)

	if goal == "" && clarification == "" && finalResponse == "" {
		return domain.ConsolidatedStep{
			Thinking:          raw,
			ContinueReasoning: false,
			FinalResponse:     raw,
		}
	}

	return domain.ConsolidatedStep{
		Thinking:          raw,
		Goal:              goal,
		ClarificationQ:    clarification,
		FinalResponse:     finalResponse,
		ContinueReasoning: finalResponse == "" && clarification == "",
	}
}

func firstCapture(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
