package dialogue

import (
	"reflect"
	"testing"
)

func TestJoinSplitLines(t *testing.T) {
	t.Parallel()

	in := []string{
		"You seem somewhat familiar,",
		"have I threatened you before?",
		"",
		"I've come to bargain",
		"- for the heart.",
		"Savvy?",
		"\"Aye,\" he said.",
		"'tis true.",
	}
	want := []string{
		"You seem somewhat familiar, have I threatened you before?",
		"I've come to bargain - for the heart.",
		"Savvy? \"Aye,\" he said. 'tis true.",
	}
	if got := JoinSplitLines(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%q, want %q", got, want)
	}
}

func TestJoinSplitLines_LeadingContinuation(t *testing.T) {
	t.Parallel()

	got := JoinSplitLines([]string{"and then", "Jack"})
	want := []string{"and then", "Jack"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%q, want %q", got, want)
	}
}
