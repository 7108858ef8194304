package dialogue

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// LineFilter reports whether a trimmed line should be dropped before classification.
type LineFilter func(line string) bool

// Presets are named exclusion pattern sets for known sources.
//
// screenplay-pdf targets the PDF screenplays found on script archive sites: the site watermark and header,
// page numbers like "113.", numbered scene headings, and bare numbers left over from margins.
var Presets = map[string][]string{
	"screenplay-pdf": {
		`8FLiX\.com`,
		`SCREENPLAY DATABASE`,
		`^\d+\.$`,
		`^\d+\.\s+[A-Z]`,
		`^\d+$`,
	},
	"page-numbers": {
		`^\d+\.?$`,
		`^(?i:page)\s+\d+(\s+of\s+\d+)?$`,
	},
}

// PresetNames returns the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for k := range Presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RegexpFilter compiles pattern into a LineFilter that matches anywhere in the line.
func RegexpFilter(pattern string) (LineFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("RegexpFilter: compile %q: %w", pattern, err)
	}
	return re.MatchString, nil
}

// BuildFilters expands presets (in order) followed by extra patterns into an ordered filter list.
func BuildFilters(presets []string, patterns []string) ([]LineFilter, error) {
	var all []string
	for _, name := range presets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ps, ok := Presets[name]
		if !ok {
			return nil, fmt.Errorf("BuildFilters: unknown preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
		}
		all = append(all, ps...)
	}
	all = append(all, patterns...)

	filters := make([]LineFilter, 0, len(all))
	for _, p := range all {
		if strings.TrimSpace(p) == "" {
			continue
		}
		f, err := RegexpFilter(p)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func excluded(filters []LineFilter, line string) bool {
	for _, f := range filters {
		if f(line) {
			return true
		}
	}
	return false
}
