package section

import (
	"strings"

	"github.com/ppiankov/ethnia/internal/model"
)

// Rule describes one known section of an entity kind: the titles that select
// it, the content-bag key it is stored under and the shape of its body.
type Rule struct {
	Key         string      // Canonical content-bag key
	Titles      []string    // Normalised title fragments selecting this rule
	Shape       model.Shape // Interpretation of the body
	Openers     []Opener    // Entry openers, for ShapeEntries
	Recommended bool        // Absence yields a warning
}

// Matches reports whether a normalised title selects r
func (r Rule) Matches(normalized string) bool {
	for _, t := range r.Titles {
		if normalized == t || strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}

// Interpret applies the rule's shape to a section body. An entries rule
// whose body holds no recognisable opener falls back to flat fields so the
// content is kept; callers detect the fallback by comparing shapes. Text
// before the first entry is read as fields alongside the entries.
func (r Rule) Interpret(lines []string) model.Value {
	switch r.Shape {
	case model.ShapeEntries:
		preface, entries := splitEntries(lines, r.Openers)
		if len(entries) == 0 {
			return model.Value{Shape: model.ShapeFields, Fields: Fields(lines)}
		}
		v := model.Value{Shape: model.ShapeEntries, Entries: entries}
		if intro := Fields(preface); len(intro) > 0 {
			v.Fields = intro
		}
		return v
	case model.ShapeList:
		return model.Value{Shape: model.ShapeList, Items: List(lines)}
	default:
		return model.Value{Shape: model.ShapeFields, Fields: Fields(lines)}
	}
}

// Schema is the read-only table of known sections for one entity kind.
// Rules are tried in order; the first match wins.
type Schema []Rule

// Match returns the rule selected by a raw section title
func (s Schema) Match(title string) (Rule, bool) {
	normalized := NormalizeTitle(title)
	for _, r := range s {
		if r.Matches(normalized) {
			return r, true
		}
	}
	return Rule{}, false
}

// Interpret dispatches a section body: known titles use their rule, unknown
// titles are read as flat label/value pairs.
func (s Schema) Interpret(title string, lines []string) (model.Value, Rule, bool) {
	if r, ok := s.Match(title); ok {
		return r.Interpret(lines), r, true
	}
	return model.Value{Shape: model.ShapeFields, Fields: Fields(lines)}, Rule{}, false
}
