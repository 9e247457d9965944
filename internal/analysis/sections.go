package analysis

import (
	"strings"
)

// Headings the reply is asked to use, in order
var Headings = []string{"Summary", "Patterns", "Suggestions"}

// Section is one headed block of the reply
type Section struct {
	Heading string
	Body    string
}

// ParseSections splits a reply on markdown headings. Text before the first
// heading, or a reply without any, lands in an untitled section.
func ParseSections(text string) []Section {
	var (
		sections []Section
		current  *Section
		body     []string
	)
	flush := func() {
		if current == nil && len(body) == 0 {
			return
		}
		s := Section{Body: strings.TrimSpace(strings.Join(body, "\n"))}
		if current != nil {
			s.Heading = current.Heading
		}
		if s.Heading != "" || s.Body != "" {
			sections = append(sections, s)
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if heading, ok := headingOf(line); ok {
			flush()
			current = &Section{Heading: heading}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}

func headingOf(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	heading = strings.Trim(heading, "*: ")
	if heading == "" {
		return "", false
	}
	return heading, true
}
