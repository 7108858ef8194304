package dialogue

import "testing"

func TestBuildFilters_PresetAndPatterns(t *testing.T) {
	t.Parallel()

	filters, err := BuildFilters([]string{"screenplay-pdf"}, []string{`POTC:.*\d+/\d+/\d+`})
	if err != nil {
		t.Fatalf("BuildFilters: %v", err)
	}

	drop := []string{
		"8FLiX.com",
		"SCREENPLAY DATABASE - FOR EDUCATIONAL PURPOSES",
		"113.",
		"42. EXT. TORTUGA - NIGHT",
		"7",
		"POTC: AT WORLD'S END 1/12/06",
	}
	for _, l := range drop {
		if !excluded(filters, l) {
			t.Fatalf("expected %q to be excluded", l)
		}
	}

	keep := []string{"JACK", "JACK SPARROW", "Not all treasure is silver and gold, mate.", "3 shillings?"}
	for _, l := range keep {
		if excluded(filters, l) {
			t.Fatalf("expected %q to be kept", l)
		}
	}
}

func TestBuildFilters_Errors(t *testing.T) {
	t.Parallel()

	if _, err := BuildFilters([]string{"nope"}, nil); err == nil {
		t.Fatalf("expected unknown preset error")
	}
	if _, err := BuildFilters(nil, []string{"("}); err == nil {
		t.Fatalf("expected regexp error")
	}
	filters, err := BuildFilters([]string{" "}, []string{""})
	if err != nil {
		t.Fatalf("BuildFilters blanks: %v", err)
	}
	if len(filters) != 0 {
		t.Fatalf("len(filters)=%d, want 0", len(filters))
	}
}

func TestPresetNames_Sorted(t *testing.T) {
	t.Parallel()

	names := PresetNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
