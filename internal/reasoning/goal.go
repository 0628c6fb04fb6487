package reasoning

import (
	"regexp"
	"strings"
)

const (
	goalAmbiguousRequest       = "AMBIGUOUS_REQUEST"
	goalNeedsFileSpecification = "NEEDS_FILE_SPECIFICATION"
)

var vagueQueries = map[string]bool{
	"help": true, "what can you do": true, "hi": true, "hello": true, "hey": true,
}

// verbOnlyPattern matches a bare verb-object request with no filename-like
// token attached ("read file", "delete something", "create file").
var verbOnlyPattern = regexp.MustCompile(`^(read|write|create|delete|remove|save)\s+(file|something|a file)?$`)

var intentGoalTemplates = []struct {
	keywords []string
	goal     string
}{
	{[]string{"list", "files", "directory"}, "List all files in the workspace"},
	{[]string{"read", "show", "view", "analyze", "explain", "describe"}, "Read and analyze the specified file content"},
	{[]string{"tree", "structure"}, "Display workspace file and directory structure in tree format"},
	{[]string{"write", "create", "save"}, "Write the specified content to a file in the workspace"},
	{[]string{"delete", "remove"}, "Delete the specified file from the workspace"},
}

// generateDefaultGoal synthesizes a goal when the LLM omitted one, per
// the goal-generation rules below. Returns the goal and whether it
// requires a clarification response instead of tool execution.
func generateDefaultGoal(query string) (goal string, needsClarification bool) {
	norm := strings.ToLower(strings.TrimSpace(query))
	norm = strings.Trim(norm, ".!? ")

	if vagueQueries[norm] {
		return goalAmbiguousRequest, true
	}
	if verbOnlyPattern.MatchString(norm) {
		return goalNeedsFileSpecification, true
	}

	for _, tmpl := range intentGoalTemplates {
		for _, kw := range tmpl.keywords {
			if strings.Contains(norm, kw) {
				return tmpl.goal, false
			}
		}
	}

	return goalAmbiguousRequest, true
}

// formatClarification renders a clarification response: a marker plus a
// short restatement of the original query.
func formatClarification(question, originalQuery string) string {
	if question == "" {
		question = "Could you clarify what you'd like me to do?"
	}
	return "🤔 " + question + "\n\n(in response to: \"" + originalQuery + "\")"
}
