package interpreter

import (
	"regexp"
	"sort"
	"strings"
)

// Persona names, in the order their options are listed.
const (
	Maverick = "Maverick"
	Stoic    = "Stoic"
	Mirror   = "Mirror"
)

var (
	blankLines = regexp.MustCompile(`(?:\r?\n[ \t]*){2,}`)

	analysisLabel = sectionLabel(`analysis`)
	optionsLabel  = sectionLabel(`(?:the[ \t]+)?options`)

	personaLabels = []struct {
		name string
		re   *regexp.Regexp
	}{
		{Maverick, personaLabel("maverick")},
		{Stoic, personaLabel("stoic")},
		{Mirror, personaLabel("mirror")},
	}
)

// sectionLabel matches a section heading: the word inside square brackets,
// after a Markdown heading marker, followed by a colon at the start of a line,
// or alone on its line. Prose that merely starts with the word does not match.
func sectionLabel(word string) *regexp.Regexp {
	w := `\*{0,2}\b` + word + `\b\*{0,2}`
	return regexp.MustCompile(`(?im)` +
		`\[[^\]\n]*` + w + `[ \t]*\][ \t]*\*{0,2}:?\*{0,2}` +
		`|^[ \t]*#+[ \t]*(?:\d+[.)][ \t]*)?` + w + `[ \t]*:?\*{0,2}` +
		`|^[ \t]*(?:\d+[.)][ \t]*)?` + w + `[ \t]*:\*{0,2}` +
		`|^[ \t]*(?:\d+[.)][ \t]*)?` + w + `[ \t]*$`)
}

func personaLabel(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:[-*•][ \t]+)?(?:\d+[.)][ \t]*)?\*{0,2}\[?(?:the[ \t]+)?` +
		name + `\b(?:[ \t]*\([^)\n]*\))?\]?\*{0,2}[ \t]*:?\*{0,2}`)
}

// Reading is the interpretation of a free-text completion that follows the
// two-section "analysis, then options" layout.
type Reading struct {
	Raw      string
	Sections []string
	Analysis string
	Maverick string
	Stoic    string
	Mirror   string

	labeled bool
}

// Sections splits text on blank lines into trimmed, non-empty chunks.
func Sections(text string) []string {
	chunks := blankLines.Split(text, -1)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if c := strings.TrimSpace(chunk); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ParseFreeform locates the Analysis and Options labels independently, then
// the three persona labels inside the Options section. The Options section
// runs to the Analysis label when it comes first, otherwise to the end.
// Anything not found is left empty. Text with no labels at all becomes the
// analysis verbatim.
func ParseFreeform(text string) Reading {
	r := Reading{
		Raw:      text,
		Sections: Sections(text),
	}

	analysisLoc := analysisLabel.FindStringIndex(text)
	optionsLoc := optionsLabel.FindStringIndex(text)
	r.labeled = analysisLoc != nil || optionsLoc != nil

	optionsText := ""
	switch {
	case analysisLoc != nil && optionsLoc != nil && optionsLoc[0] < analysisLoc[0]:
		r.Analysis = text[analysisLoc[1]:]
		optionsText = text[optionsLoc[1]:max(optionsLoc[1], analysisLoc[0])]
	case analysisLoc != nil && optionsLoc != nil:
		r.Analysis = text[analysisLoc[1]:max(analysisLoc[1], optionsLoc[0])]
		optionsText = text[optionsLoc[1]:]
	case analysisLoc != nil:
		r.Analysis = text[analysisLoc[1]:]
	case optionsLoc != nil:
		r.Analysis = text[:optionsLoc[0]]
		optionsText = text[optionsLoc[1]:]
	default:
		r.Analysis = text
	}
	r.Analysis = strings.TrimSpace(r.Analysis)

	if optionsText != "" {
		personas := parsePersonas(optionsText)
		r.Maverick = personas[Maverick]
		r.Stoic = personas[Stoic]
		r.Mirror = personas[Mirror]
	}
	return r
}

type labelHit struct {
	name       string
	start, end int
}

func parsePersonas(text string) map[string]string {
	hits := make([]labelHit, 0, len(personaLabels))
	for _, p := range personaLabels {
		if loc := p.re.FindStringIndex(text); loc != nil {
			hits = append(hits, labelHit{name: p.name, start: loc[0], end: loc[1]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	out := make(map[string]string, len(hits))
	for i, h := range hits {
		stop := len(text)
		if i+1 < len(hits) {
			stop = hits[i+1].start
		}
		if stop < h.end {
			stop = h.end
		}
		out[h.name] = strings.TrimSpace(text[h.end:stop])
	}
	return out
}

// Unstructured reports that no label was recognized, in which case the raw
// text should be shown as-is.
func (r Reading) Unstructured() bool {
	return !r.labeled
}

// Result converts the reading into the shared Result shape. Personas that were
// not offered are left out.
func (r Reading) Result() Result {
	result := Result{
		Analysis: r.Analysis,
		Options:  []Option{},
	}
	for _, o := range []Option{
		{Title: Maverick, Content: r.Maverick},
		{Title: Stoic, Content: r.Stoic},
		{Title: Mirror, Content: r.Mirror},
	} {
		if o.Content != "" {
			result.Options = append(result.Options, o)
		}
	}
	return result
}
