// Package filter implements the Content Filter (C4): a fast, deterministic
// regex-based pre-flight check run before any LLM call. Grounded on the
// line/source regex-rule structure used for script scanning elsewhere in
// the retrieved corpus (categorized rule sets, case-insensitive patterns),
// generalized from a code-security scanner into a query-safety classifier.
package filter

import (
	"regexp"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

// riskRule pairs a risk category with the patterns that signal it.
type riskRule struct {
	risk     domain.SafetyRisk
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile("(?i)"+e))
	}
	return out
}

// riskRules are fixed at build time, one rule set per SafetyRisk category.
var riskRules = []riskRule{
	{
		risk: domain.RiskPathTraversal,
		patterns: compile(
			`\.\./`, `/\.\.`, `%2e%2e`, `\.\.%2f`,
		),
	},
	{
		risk: domain.RiskMaliciousCode,
		patterns: compile(
			`rm\s+-rf`, `del\s+/s`, `format\s+c:`, `dd\s+if=`, `mkfs\.`, `fdisk`,
		),
	},
	{
		risk: domain.RiskSystemAccess,
		patterns: compile(
			`/etc/passwd`, `/etc/shadow`, `sudo\s+`, `chmod\s+777`,
		),
	},
	{
		risk: domain.RiskDataExfiltration,
		patterns: compile(
			`curl.*http`, `wget.*http`, `nc\s+.*\d+`, `scp\s+.*@`,
		),
	},
	{
		risk: domain.RiskPromptInjection,
		patterns: compile(
			`ignore.*instructions`, `forget.*previous`, `you.*are.*now`,
		),
	},
	{
		risk: domain.RiskHarmfulContent,
		patterns: compile(
			`hack`, `exploit`, `backdoor`, `malware`,
		),
	},
}

// domainKeywords and questionKeywords drive off-topic detection: a query
// mentioning neither a file-operations concept nor a question form is
// classified OFF_TOPIC.
var domainKeywords = []string{
	"file", "files", "directory", "directories", "folder", "folders",
	"read", "write", "create", "list", "delete", "remove", "show",
	"view", "save", "open", "tree", "workspace", "path",
	// non-English synonyms
	"file", "cartella", "cartelle", "lista", "mostra", "leggi", "crea",
	"elimina", "directorio", "archivo", "carpeta",
}

var questionKeywords = []string{
	"what", "how", "where", "which", "why", "who", "when",
	"cosa", "come", "dove", "perché",
}

// Result is the Content Filter's verdict for one query.
type Result struct {
	IsSafe                bool
	Confidence            float64
	DetectedRisks         []domain.SafetyRisk
	Explanation           string
	SuggestedAlternatives []string
}

// Classify runs every risk rule and the off-topic heuristic against query
// and returns a deterministic verdict — no model call, no I/O.
func Classify(query string) Result {
	lower := strings.ToLower(query)

	var risks []domain.SafetyRisk
	for _, rule := range riskRules {
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				risks = append(risks, rule.risk)
				break
			}
		}
	}

	if len(risks) == 0 && isOffTopic(lower) {
		risks = append(risks, domain.RiskOffTopic)
	}

	if len(risks) == 0 {
		return Result{
			IsSafe:     true,
			Confidence: 0.9,
		}
	}

	confidence := 1 - 0.3*float64(len(risks))
	if confidence < 0.1 {
		confidence = 0.1
	}

	return Result{
		IsSafe:        false,
		Confidence:    confidence,
		DetectedRisks: risks,
		Explanation:   explain(risks),
		SuggestedAlternatives: []string{
			"Rephrase the request to name a specific file or directory in the workspace.",
			"Avoid shell metacharacters or system paths in the request.",
		},
	}
}

func isOffTopic(lower string) bool {
	hasDomain := false
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			hasDomain = true
			break
		}
	}
	hasQuestion := false
	for _, kw := range questionKeywords {
		if strings.Contains(lower, kw) {
			hasQuestion = true
			break
		}
	}
	return !hasDomain && !hasQuestion
}

func explain(risks []domain.SafetyRisk) string {
	names := make([]string, len(risks))
	for i, r := range risks {
		names[i] = string(r)
	}
	return "query flagged for: " + strings.Join(names, ", ")
}
