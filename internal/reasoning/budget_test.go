package reasoning

import "testing"

func TestIterationTracker_FlagsLastIteration(t *testing.T) {
	tr := newIterationTracker(3)

	for i := 0; i < 2; i++ {
		_, isLast := tr.Next()
		if isLast {
			t.Fatalf("iteration %d should not be flagged last", i)
		}
	}
	_, isLast := tr.Next()
	if !isLast {
		t.Fatal("third of three iterations should be flagged last")
	}
	if tr.Consumed() != 3 {
		t.Fatalf("expected 3 consumed, got %d", tr.Consumed())
	}
}
