// Package section splits hand-authored documents into titled sections and
// interprets section bodies as label/value maps, sub-record lists or scalar
// lists.
package section

import (
	"regexp"
	"strings"
)

// heading matches "# Title", "### 7. Title ###"
var heading = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)[ \t]*#*[ \t]*$`)

// Section is one top-level block of a document
type Section struct {
	Title string   // Raw heading text
	Level int      // Number of heading markers
	Start int      // Index of the first body line in the document
	End   int      // Index one past the last body line
	Lines []string // Body lines, deeper headings included
}

// Outline is a document split into its header block and top-level sections
type Outline struct {
	Preamble []string
	Sections []Section
}

// Titles returns the section titles in document order
func (o Outline) Titles() []string {
	titles := make([]string, len(o.Sections))
	for i, s := range o.Sections {
		titles[i] = s.Title
	}
	return titles
}

// Lines splits a normalised document into lines
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// HeadingOf reports whether line is a heading and returns its level and title
func HeadingOf(line string) (level int, title string, ok bool) {
	m := heading.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(m[2]) == "" {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

// Split partitions a document into top-level sections. Only headings at the
// minimum level observed in the document delimit sections; deeper headings
// stay in the body of their enclosing section. A document without headings
// yields no sections and a preamble holding every line.
func Split(text string) Outline {
	lines := Lines(text)

	type mark struct {
		line  int
		level int
		title string
	}

	var marks []mark
	minLevel := 0
	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		level, title, ok := HeadingOf(line)
		if !ok {
			continue
		}
		marks = append(marks, mark{line: i, level: level, title: title})
		if minLevel == 0 || level < minLevel {
			minLevel = level
		}
	}

	var top []mark
	for _, m := range marks {
		if m.level == minLevel {
			top = append(top, m)
		}
	}

	if len(top) == 0 {
		return Outline{Preamble: lines}
	}

	outline := Outline{Preamble: lines[:top[0].line]}
	for i, m := range top {
		end := len(lines)
		if i+1 < len(top) {
			end = top[i+1].line
		}
		outline.Sections = append(outline.Sections, Section{
			Title: m.title,
			Level: m.level,
			Start: m.line + 1,
			End:   end,
			Lines: lines[m.line+1 : end],
		})
	}

	return outline
}
