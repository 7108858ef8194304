package dialogue

import (
	"strings"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want LineKind
	}{
		{"", LineBlank},
		{"   \t", LineBlank},
		{"JACK", LineCue},
		{"  JACK SPARROW  ", LineCue},
		{"JACK (CONT'D)", LineCue},
		{"JACK (V.O.)", LineCue},
		{"JACK.", LineDirection},
		{"jack", LineDialogue},
		{"Jack", LineDialogue},
		{"Why is the rum gone?", LineDialogue},
		{"113.", LineDialogue},
		{"WHY IS THE RUM GONE?", LineDirection},
		{"EXT. BLACK PEARL - NIGHT", LineDirection},
		{"A", LineCue},
		{strings.Repeat("X", 29), LineCue},
		{strings.Repeat("X", 30), LineDirection},
		{"ÉLISABETH", LineCue},
	}
	for _, tc := range cases {
		if got := ClassifyLine(tc.line); got != tc.want {
			t.Fatalf("ClassifyLine(%q)=%s, want %s", tc.line, got, tc.want)
		}
	}
}

func TestClassifyLine_LongUnpunctuatedLineIsNeverCue(t *testing.T) {
	t.Parallel()

	long := "THE KRAKEN RISES FROM THE DEEP SEA"
	if got := ClassifyLine(long); got == LineCue {
		t.Fatalf("ClassifyLine(%q)=cue, want non-cue", long)
	}
	if got := ClassifyLine(strings.ToLower("JACK")); got == LineCue {
		t.Fatalf("lower-case line classified as cue")
	}
}

func TestNormalizeCue(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"JACK":                "JACK",
		"JACK  SPARROW":       "JACK SPARROW",
		"JACK (CONT'D)":       "JACK",
		"JACK (O/S) (CONT'D)": "JACK",
		"(V/O)":               "(V/O)",
	}
	for in, want := range cases {
		if got := NormalizeCue(in); got != want {
			t.Fatalf("NormalizeCue(%q)=%q, want %q", in, got, want)
		}
	}
}
