// Package assemble turns one document into a typed entity: identifier gate,
// header gate, then enrichment of every section into the content bag.
package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/section"
)

// ErrUnknownKind is returned for a kind with no registered parser
var ErrUnknownKind = errors.New("unknown entity kind")

// Parser parses documents of one kind
type Parser interface {
	// Kind returns the entity kind handled
	Kind() model.Kind

	// Parse assembles one document. It never panics and never returns an
	// error; problems are carried by the result.
	Parse(text string) model.ParsedFile[model.Entity]
}

type parserFunc[T model.Entity] struct {
	kind model.Kind
	fn   func(string) model.ParsedFile[T]
}

func (p parserFunc[T]) Kind() model.Kind { return p.kind }

func (p parserFunc[T]) Parse(text string) model.ParsedFile[model.Entity] {
	return model.Erase(p.fn(text))
}

// Registry manages parsers by kind
type Registry struct {
	parsers map[model.Kind]Parser
}

// NewRegistry creates a registry holding the three built-in parsers
func NewRegistry() *Registry {
	registry := &Registry{
		parsers: make(map[model.Kind]Parser),
	}

	registry.Register(parserFunc[model.Country]{kind: model.KindCountry, fn: Country})
	registry.Register(parserFunc[model.People]{kind: model.KindPeople, fn: People})
	registry.Register(parserFunc[model.LanguageFamily]{kind: model.KindLanguageFamily, fn: LanguageFamily})

	return registry
}

// Register adds or replaces the parser for its kind
func (r *Registry) Register(p Parser) {
	r.parsers[p.Kind()] = p
}

// Find returns the parser registered for kind
func (r *Registry) Find(kind model.Kind) (Parser, bool) {
	p, ok := r.parsers[kind]
	return p, ok
}

// Parse dispatches a document to the parser of its kind
func (r *Registry) Parse(kind model.Kind, text string) (model.ParsedFile[model.Entity], error) {
	p, ok := r.Find(kind)
	if !ok {
		return model.ParsedFile[model.Entity]{}, fmt.Errorf("parse %q: %w", kind, ErrUnknownKind)
	}
	return p.Parse(text), nil
}

var defaultRegistry = NewRegistry()

// Parse dispatches a document through the built-in registry
func Parse(kind model.Kind, text string) (model.ParsedFile[model.Entity], error) {
	return defaultRegistry.Parse(kind, text)
}

// document is the state shared by the gates and the enrichment phase
type document struct {
	kind     model.Kind
	id       string
	text     string
	title    string // Document title heading, when the body is nested under one
	header   model.Fields
	sections []section.Section
	content  model.Content
	warnings []model.Diagnostic
}

// failure is a terminal gate outcome
type failure struct {
	kind    model.DiagnosticType
	message string
	section string
}

func (d *document) warn(kind model.DiagnosticType, sectionName, format string, args ...any) {
	d.warnings = append(d.warnings, model.Diagnostic{
		Type:    kind,
		Message: fmt.Sprintf(format, args...),
		Section: sectionName,
	})
}

// run drives one parse. Faults raised anywhere below are recovered into a
// parse_failure result.
func run[T any](kind model.Kind, text string, build func(*document) (T, *failure)) (result model.ParsedFile[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = model.Failed[T](model.ErrorParseFailure, fmt.Sprintf("%s document: internal fault: %v", kind, r), "", nil)
		}
	}()

	doc, fail := open(kind, text)
	if fail != nil {
		return model.Failed[T](fail.kind, fail.message, fail.section, nil)
	}

	data, fail := build(doc)
	if fail != nil {
		return model.Failed[T](fail.kind, fail.message, fail.section, doc.warnings)
	}
	return model.Succeeded(data, doc.warnings)
}

// open runs both gates: identifier first, then the header block
func open(kind model.Kind, text string) (*document, *failure) {
	text = section.NormalizeDocument(text)

	id, err := extract.Identifier(text, kind)
	if err != nil {
		return nil, &failure{kind: model.ErrorMissingID, message: err.Error()}
	}

	doc := &document{kind: kind, id: id, text: text, content: model.Content{}}

	outline := section.Split(text)
	preamble := outline.Preamble

	// A single top-level heading opening the document and wrapping all of it
	// is its title, unless it names a known section
	if len(outline.Sections) == 1 && blank(preamble) && !isKnownTitle(kind, outline.Sections[0].Title) {
		only := outline.Sections[0]
		if inner := section.Split(strings.Join(only.Lines, "\n")); len(inner.Sections) > 0 {
			doc.title = section.StripEmphasis(only.Title)
			preamble = inner.Preamble
			outline.Sections = inner.Sections
		}
	}

	doc.header = section.Header(preamble)
	doc.sections = outline.Sections

	if len(doc.header) == 0 && len(doc.sections) > 0 && isHeaderTitle(doc.sections[0].Title) {
		doc.header = section.Header(doc.sections[0].Lines)
		doc.sections = doc.sections[1:]
	}

	if len(doc.header) == 0 {
		return nil, &failure{
			kind:    model.ErrorMissingSection,
			message: fmt.Sprintf("%s %s: header block is missing", kind, id),
			section: "header",
		}
	}

	return doc, nil
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

func isKnownTitle(kind model.Kind, title string) bool {
	if isHeaderTitle(title) {
		return true
	}
	_, ok := Schemas[kind].Match(title)
	return ok
}

func isHeaderTitle(title string) bool {
	norm := section.NormalizeTitle(title)
	for _, t := range headerTitles {
		if norm == t {
			return true
		}
	}
	return false
}

// name resolves the display name from the header, then the title heading,
// then the identifier. A title heading the header overrides stays in the
// content bag under KeyTitle.
func (d *document) name(aliases ...string) string {
	if v, ok := lookup(d.header, aliases...); ok && v != "" {
		if d.title != "" {
			d.put(KeyTitle, d.title)
		}
		return v
	}
	if d.title != "" {
		return d.title
	}
	d.warn(model.WarningMissingOptionalSection, "name", "%s %s: no name in header, using the identifier", d.kind, d.id)
	return d.id
}

// enrich interprets every section into the content bag
func (d *document) enrich() {
	schema := Schemas[d.kind]
	seen := make(map[string]bool)

	for _, s := range d.sections {
		value, rule, known := schema.Interpret(s.Title, s.Lines)
		if !known {
			d.put(s.Title, value.Fields)
			continue
		}
		seen[rule.Key] = true

		if rule.Shape == model.ShapeEntries && value.Shape != model.ShapeEntries {
			if len(value.Fields) > 0 {
				d.warn(model.WarningMalformedSection, s.Title, "%s %s: no entry found in %q, kept as fields", d.kind, d.id, s.Title)
				d.put(rule.Key, value.Fields)
				continue
			}
			value = model.Value{Shape: model.ShapeEntries, Entries: []model.Entry{}}
		}

		if value.Shape == model.ShapeEntries && len(value.Fields) > 0 {
			d.put(IntroKey(rule.Key), value.Fields)
		}

		if rule.Key == KeyDecolonialContext {
			if missing := missingDecolonial(value.Fields); len(missing) > 0 {
				d.warn(model.WarningMissingOptionalSection, s.Title, "%s %s: decolonial context lacks %s", d.kind, d.id, strings.Join(missing, ", "))
			}
		}

		d.put(rule.Key, typed(rule.Key, value))
	}

	for _, r := range schema {
		if r.Recommended && !seen[r.Key] {
			d.warn(model.WarningMissingOptionalSection, r.Key, "%s %s: recommended section %s is missing", d.kind, d.id, r.Key)
		}
	}
}

// put stores v under key, suffixing repeated keys so no section is lost
func (d *document) put(key string, v any) {
	k := key
	for n := 2; ; n++ {
		if _, taken := d.content[k]; !taken {
			break
		}
		k = fmt.Sprintf("%s (%d)", key, n)
	}
	d.content[k] = v
}

// typed converts an interpreted section into the value stored for its key
func typed(key string, v model.Value) any {
	switch key {
	case KeyMajorPeoples:
		out := make([]model.MajorPeople, len(v.Entries))
		for i, e := range v.Entries {
			out[i] = majorPeople(e)
		}
		return out
	case KeyPoliticalEntities:
		out := make([]model.PoliticalEntity, len(v.Entries))
		for i, e := range v.Entries {
			out[i] = politicalEntity(e)
		}
		return out
	case KeyDemographics:
		return demographics(v.Fields)
	case KeyLanguages:
		return languageSection(v.Fields)
	case KeyDistribution:
		return distribution(v.Fields)
	case KeySpeakers:
		return speakers(v.Fields)
	case KeySources:
		return v.Items
	default:
		return v.Fields
	}
}
