package reasoning

import "testing"

func TestGenerateDefaultGoal(t *testing.T) {
	cases := []struct {
		query             string
		wantGoal          string
		wantClarification bool
	}{
		{"help", goalAmbiguousRequest, true},
		{"what can you do", goalAmbiguousRequest, true},
		{"hi", goalAmbiguousRequest, true},
		{"read file", goalNeedsFileSpecification, true},
		{"delete something", goalNeedsFileSpecification, true},
		{"list files", "List all files in the workspace", false},
		{"describe secure_agent.py", "Read and analyze the specified file content", false},
		{"read config.toml", "Read and analyze the specified file content", false},
	}

	for _, tc := range cases {
		goal, needsClarification := generateDefaultGoal(tc.query)
		if goal != tc.wantGoal {
			t.Errorf("generateDefaultGoal(%q) goal = %q, want %q", tc.query, goal, tc.wantGoal)
		}
		if needsClarification != tc.wantClarification {
			t.Errorf("generateDefaultGoal(%q) needsClarification = %v, want %v", tc.query, needsClarification, tc.wantClarification)
		}
	}
}
