// Package supervisor implements the Supervisor (C5): the two-phase
// safety-moderation pipeline that stands between an incoming user query and
// the Reasoning Loop. Phase A is the deterministic Content Filter; Phase B
// is an LLM moderation call, with a rule-based fallback when that call is
// unavailable or returns something the pipeline can't trust.
package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/filter"
	"github.com/sandboxagent/sandboxagent/internal/llm"
	"github.com/sandboxagent/sandboxagent/internal/logging"
)

const systemPrompt = `You are a safety moderator and intent extractor for a sandboxed file-operations agent.
Respond with strict JSON only, no prose outside the JSON object, matching exactly:
{"decision": "ALLOWED"|"REJECTED"|"REQUIRES_REVIEW", "allowed": bool, "intent": {"type": string, "confidence": number}, "reason": string, "risk_factors": [string]}`

// affirmatives and negatives are the closed set of short follow-up replies
// that trigger context-combining before Phase B runs.
var affirmatives = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true, "okay": true,
	"si": true, "sì": true, "va bene": true, "certo": true,
}
var negatives = map[string]bool{
	"no": true, "nope": true, "nah": true, "non": true, "no grazie": true,
}

// moderationJSON is the strict schema demanded of the supervisor LLM.
type moderationJSON struct {
	Decision string `json:"decision"`
	Allowed  bool   `json:"allowed"`
	Intent   struct {
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
	Reason      string   `json:"reason"`
	RiskFactors []string `json:"risk_factors"`
}

// Supervisor runs the two-phase moderation pipeline.
type Supervisor struct {
	client llm.Client // may be nil: Phase B is then always skipped in favor of rule-based fallback
}

// New returns a Supervisor. client may be nil to force rule-based-only
// moderation (e.g. no API key configured for the supervisor role).
func New(client llm.Client) *Supervisor {
	return &Supervisor{client: client}
}

// Moderate runs the full pipeline for one request.
func (s *Supervisor) Moderate(ctx context.Context, req domain.ModerationRequest) domain.ModerationResponse {
	query := req.UserQuery
	if req.ConversationContext != "" && isAmbiguousFollowUp(query) {
		query = combineContext(req.ConversationContext, query)
	}

	result := filter.Classify(query)

	// Phase A: an emphatic filter verdict short-circuits without an LLM call.
	if !result.IsSafe && result.Confidence > 0.8 {
		resp := domain.ModerationResponse{
			Decision:    domain.DecisionRejected,
			Allowed:     false,
			Reason:      result.Explanation,
			RiskFactors: result.DetectedRisks,
		}
		s.logDecision(req, resp, result.Confidence)
		return resp
	}

	// Phase B: LLM moderation, with rule-based fallback on any failure.
	resp := s.phaseB(ctx, query, result)
	resp = augment(resp, result)
	s.logDecision(req, resp, result.Confidence)
	return resp
}

func (s *Supervisor) phaseB(ctx context.Context, query string, filterResult filter.Result) domain.ModerationResponse {
	if s.client == nil {
		return ruleBasedModeration(query, filterResult)
	}

	raw, err := s.client.Complete(ctx, systemPrompt, query)
	if err != nil {
		return ruleBasedModeration(query, filterResult)
	}

	var parsed moderationJSON
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return ruleBasedModeration(query, filterResult)
	}
	if parsed.Decision == "" {
		return ruleBasedModeration(query, filterResult)
	}

	risks := make([]domain.SafetyRisk, 0, len(parsed.RiskFactors))
	for _, r := range parsed.RiskFactors {
		risks = append(risks, domain.SafetyRisk(r))
	}

	return domain.ModerationResponse{
		Decision: domain.ModerationDecision(parsed.Decision),
		Allowed:  parsed.Allowed,
		Intent: &domain.Intent{
			Type:       domain.IntentType(parsed.Intent.Type),
			Confidence: parsed.Intent.Confidence,
		},
		Reason:      parsed.Reason,
		RiskFactors: risks,
	}
}

// augment applies two cross-phase rules: risks the filter raised
// but the LLM didn't mention are appended to an approval, and a
// high-confidence unsafe filter verdict overrides an LLM approval.
func augment(resp domain.ModerationResponse, filterResult filter.Result) domain.ModerationResponse {
	if !filterResult.IsSafe {
		if resp.Allowed {
			resp.RiskFactors = mergeRisks(resp.RiskFactors, filterResult.DetectedRisks)
		}
		if filterResult.Confidence > 0.9 && resp.Allowed {
			resp.Allowed = false
			resp.Decision = domain.DecisionRejected
			resp.Reason = filterResult.Explanation
		}
	}
	return resp
}

func mergeRisks(existing, extra []domain.SafetyRisk) []domain.SafetyRisk {
	seen := make(map[domain.SafetyRisk]bool, len(existing))
	for _, r := range existing {
		seen[r] = true
	}
	for _, r := range extra {
		if !seen[r] {
			existing = append(existing, r)
			seen[r] = true
		}
	}
	return existing
}

// intentRule pairs a keyword family with the intent it signals.
type intentRule struct {
	keywords []string
	intent   domain.IntentType
	tools    []string
}

var intentRules = []intentRule{
	{[]string{"read", "show", "view"}, domain.IntentFileRead, []string{"read_file", "read_file_by_path"}},
	{[]string{"write", "create", "save"}, domain.IntentFileWrite, []string{"write_file"}},
	{[]string{"delete", "remove"}, domain.IntentFileDelete, []string{"delete_file"}},
	{[]string{"list", "files", "directory"}, domain.IntentFileList, []string{"list_files", "list_all", "list_tree"}},
	{[]string{"analyze", "explain", "what", "how"}, domain.IntentFileQuestion, []string{"answer_question_about_files"}},
}

// ruleBasedModeration is the Phase B fallback: approve unless the filter
// itself flagged the query, and classify intent from keyword families.
func ruleBasedModeration(query string, filterResult filter.Result) domain.ModerationResponse {
	lower := strings.ToLower(query)

	intent := &domain.Intent{Type: domain.IntentUnknown, Confidence: 0.5}
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				intent.Type = rule.intent
				intent.Confidence = 0.75
				intent.ToolsNeeded = rule.tools
				break
			}
		}
		if intent.Type != domain.IntentUnknown {
			break
		}
	}

	if !filterResult.IsSafe {
		return domain.ModerationResponse{
			Decision:    domain.DecisionRejected,
			Allowed:     false,
			Intent:      intent,
			Reason:      filterResult.Explanation,
			RiskFactors: filterResult.DetectedRisks,
		}
	}

	return domain.ModerationResponse{
		Decision: domain.DecisionAllowed,
		Allowed:  true,
		Intent:   intent,
		Reason:   "rule-based moderation: no risk signals detected",
	}
}

func isAmbiguousFollowUp(query string) bool {
	norm := strings.ToLower(strings.TrimSpace(query))
	norm = strings.Trim(norm, ".!? ")
	return affirmatives[norm] || negatives[norm]
}

func combineContext(context, followUp string) string {
	return fmt.Sprintf("Previous context: %s\nUser follow-up: %s", context, followUp)
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSONObject pulls the first {...} span out of a reply that may
// carry leading/trailing prose despite the prompt's "JSON only" demand.
func extractJSONObject(raw string) string {
	if m := jsonObjectPattern.FindString(raw); m != "" {
		return m
	}
	return raw
}

func (s *Supervisor) logDecision(req domain.ModerationRequest, resp domain.ModerationResponse, confidence float64) {
	eventType := "moderation_approved"
	if !resp.Allowed {
		eventType = "moderation_rejected"
	}
	preview := req.UserQuery
	if len(preview) > 100 {
		preview = preview[:100]
	}
	risks := make([]string, len(resp.RiskFactors))
	for i, r := range resp.RiskFactors {
		risks[i] = string(r)
	}
	logging.SecurityEvent(eventType, req.ConversationID, preview, risks, confidence)
}
