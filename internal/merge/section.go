package merge

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Section is a contiguous heading-delimited span of a structured document.
// Offsets are byte positions into the document; End is exclusive. Sections
// are recomputed on every merge and never cached across invocations.
type Section struct {
	// HeadingText is the heading line without its marker, trimmed.
	HeadingText string
	Level       int
	Start, End  int
}

// SectionConflictError reports a replacement span outside the document
// bounds. Section detection never produces such a span itself.
type SectionConflictError struct {
	Start, End, DocLen int
}

func (e *SectionConflictError) Error() string {
	return fmt.Sprintf("section span [%d,%d) out of document bounds (length %d)", e.Start, e.End, e.DocLen)
}

// Shape classifies a document for ModeAuto dispatch.
type Shape int

const (
	// Unstructured documents get append semantics.
	Unstructured Shape = iota
	// Structured documents look like a change log and get update semantics.
	Structured
)

// Classify decides whether a document looks like a structured change log:
// it does when any section heading carries a version-like token.
func Classify(doc string) Shape {
	for _, section := range ParseSections(doc) {
		if versionToken.MatchString(section.HeadingText) {
			return Structured
		}
	}
	return Unstructured
}

var (
	headingLine  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	versionToken = regexp.MustCompile(`\bv?\d+\.\d+(?:\.\d+)?`)
)

// ParseSections splits a document into heading-delimited sections.
//
// The heading marker convention is level-2 ATX headings when the document
// has any; otherwise the topmost heading level present is used. A section
// spans from its heading line (inclusive) to the next heading of the same
// or higher level (exclusive) or end of document. Headings inside fenced
// code blocks are ignored.
func ParseSections(doc string) []Section {
	headings := scanHeadings(doc)
	if len(headings) == 0 {
		return nil
	}

	level := sectionLevel(headings)

	var sections []Section
	for i, h := range headings {
		if h.level != level {
			continue
		}
		end := len(doc)
		for _, next := range headings[i+1:] {
			if next.level <= level {
				end = next.offset
				break
			}
		}
		sections = append(sections, Section{
			HeadingText: h.text,
			Level:       h.level,
			Start:       h.offset,
			End:         end,
		})
	}
	return sections
}

// sectionLevel picks the heading level that delimits sections.
func sectionLevel(headings []heading) int {
	minLevel := headings[0].level
	for _, h := range headings {
		if h.level == 2 {
			return 2
		}
		if h.level < minLevel {
			minLevel = h.level
		}
	}
	return minLevel
}

type heading struct {
	level  int
	text   string
	offset int
}

// scanHeadings finds ATX heading lines, tracking fenced code blocks so a
// `# comment` inside an example never becomes a section boundary.
func scanHeadings(doc string) []heading {
	var headings []heading
	inFence := false

	offset := 0
	for offset <= len(doc) {
		lineEnd := strings.IndexByte(doc[offset:], '\n')
		var line string
		next := len(doc) + 1
		if lineEnd >= 0 {
			line = doc[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		} else {
			line = doc[offset:]
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		} else if !inFence {
			if m := headingLine.FindStringSubmatch(line); m != nil {
				headings = append(headings, heading{
					level:  len(m[1]),
					text:   m[2],
					offset: offset,
				})
			}
		}

		if next > len(doc) {
			break
		}
		offset = next
	}
	return headings
}

// FindSection returns the first section whose heading matches the version
// label. An empty label matches the first section (topmost entries are
// assumed most recent). Matching is case-insensitive substring with number
// boundaries: "1.2" matches "## [1.2] - 2024-01-01" but not "## 1.20.0".
func FindSection(doc, label string) (Section, bool) {
	sections := ParseSections(doc)
	if len(sections) == 0 {
		return Section{}, false
	}
	if label == "" {
		return sections[0], true
	}
	for _, section := range sections {
		if headingMatchesLabel(section.HeadingText, label) {
			return section, true
		}
	}
	return Section{}, false
}

// headingMatchesLabel reports whether the heading text contains the label,
// case-insensitively, not embedded in a longer version string.
func headingMatchesLabel(text, label string) bool {
	lowText := strings.ToLower(text)
	lowLabel := strings.ToLower(strings.TrimSpace(label))
	if lowLabel == "" {
		return false
	}

	for from := 0; ; {
		i := strings.Index(lowText[from:], lowLabel)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(lowLabel)
		if !versionAdjacent(lowText, start-1) && !versionAdjacent(lowText, end) {
			return true
		}
		from = start + 1
	}
}

// versionAdjacent reports whether the byte at index extends a version
// number (a digit or a dot), which would make a substring match a false
// positive like "1.2" inside "1.20.0".
func versionAdjacent(s string, index int) bool {
	if index < 0 || index >= len(s) {
		return false
	}
	r := rune(s[index])
	return unicode.IsDigit(r) || r == '.'
}

// updateDocument replaces the matching section span with content, or
// prepends content as a new top section after the document preamble when no
// section matches the label.
func updateDocument(doc, content, label string) (string, error) {
	section, found := FindSection(doc, label)
	if !found {
		return insertTopSection(doc, content), nil
	}

	if section.Start < 0 || section.End < section.Start || section.End > len(doc) {
		return "", &SectionConflictError{Start: section.Start, End: section.End, DocLen: len(doc)}
	}

	block := ensureTrailingNewline(content)
	rest := doc[section.End:]
	if rest != "" && !strings.HasSuffix(block, "\n\n") {
		block += "\n"
	}
	return doc[:section.Start] + block + rest, nil
}

// insertTopSection places content as the new first section, keeping any
// preamble (title and introduction before the first heading) on top and the
// previously-first section intact below.
func insertTopSection(doc, content string) string {
	sections := ParseSections(doc)

	block := ensureTrailingNewline(content) + "\n"
	if len(sections) == 0 {
		return joinDocuments(content, doc)
	}

	at := sections[0].Start
	return doc[:at] + block + doc[at:]
}
