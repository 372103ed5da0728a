package tutor

import "strings"

// ParsedResponse holds the five labelled sections of one assistant reply.
// Any section may be empty.
type ParsedResponse struct {
	Target       string `json:"target"`
	Translation  string `json:"translation"`
	Alternatives string `json:"alternatives"`
	Corrections  string `json:"corrections"`
	Tip          string `json:"tip"`
}

type section int

const (
	sectionNone section = iota
	sectionTarget
	sectionTranslation
	sectionAlternatives
	sectionCorrections
	sectionTip
	sectionCount
)

// ParseSections splits a raw reply into sections. It never fails: lines
// before the first marker are dropped and missing sections stay empty.
func ParseSections(text string) ParsedResponse {
	var collected [sectionCount][]string
	current := sectionNone

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		switch {
		case hasPrefixFold(line, "TARGET:"):
			current = sectionTarget
			collected[current] = append(collected[current], strings.TrimSpace(line[len("TARGET:"):]))
		case hasPrefixFold(line, "EN:"):
			current = sectionTranslation
			collected[current] = append(collected[current], strings.TrimSpace(line[len("EN:"):]))
		case hasPrefixFold(line, "ALTERNATIVES"):
			current = sectionAlternatives
		case hasPrefixFold(line, "CORRECTIONS"):
			current = sectionCorrections
		case strings.Contains(upper, "CULTURAL") || strings.Contains(upper, "TIP"):
			current = sectionTip
			collected[current] = append(collected[current], line)
		case current != sectionNone:
			collected[current] = append(collected[current], line)
		}
	}

	join := func(s section) string {
		return strings.TrimSpace(strings.Join(collected[s], "\n"))
	}
	return ParsedResponse{
		Target:       join(sectionTarget),
		Translation:  join(sectionTranslation),
		Alternatives: join(sectionAlternatives),
		Corrections:  join(sectionCorrections),
		Tip:          join(sectionTip),
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Format renders p back into the marker layout ParseSections reads.
// Empty sections are omitted.
func (p ParsedResponse) Format() string {
	var b strings.Builder
	if p.Target != "" {
		b.WriteString("TARGET: " + p.Target + "\n")
	}
	if p.Translation != "" {
		b.WriteString("EN: " + p.Translation + "\n")
	}
	if p.Alternatives != "" {
		b.WriteString("ALTERNATIVES:\n" + p.Alternatives + "\n")
	}
	if p.Corrections != "" {
		b.WriteString("CORRECTIONS:\n" + p.Corrections + "\n")
	}
	if p.Tip != "" {
		b.WriteString(p.Tip + "\n")
	}
	return b.String()
}

// Extras combines alternatives and corrections for display.
func (p ParsedResponse) Extras() string {
	if p.Corrections == "" {
		return p.Alternatives
	}
	return p.Alternatives + "\n" + p.Corrections
}

// CountCorrections counts the lines of a corrections section that look like
// a correction: a bullet, or an "a -> b" rewrite.
func CountCorrections(corrections string) int {
	n := 0
	for line := range strings.Lines(corrections) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") || strings.Contains(trimmed, "->") {
			n++
		}
	}
	return n
}
