// Package validate checks a loaded corpus for references that do not
// resolve and profiles the sources each entity cites.
package validate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
)

// Severity grades an issue
type Severity string

const (
	SeverityCritical Severity = "critical" // Dangling people or language family reference
	SeverityWarning  Severity = "warning"  // Dangling country code, or a prose mention
	SeverityInfo     Severity = "info"     // Source quality note
)

// Issue is one validation finding
type Issue struct {
	Severity   Severity   `json:"severity"`
	Source     string     `json:"source"`
	SourceKind model.Kind `json:"sourceKind"`
	Field      string     `json:"field,omitempty"`
	Target     string     `json:"target,omitempty"`
	TargetKind model.Kind `json:"targetKind,omitempty"`
	Message    string     `json:"message"`
}

// SourceProfile counts the cited sources of one entity by tier
type SourceProfile struct {
	Primary   int `json:"primary"`
	Secondary int `json:"secondary"`
	Tertiary  int `json:"tertiary"`
	Print     int `json:"print"`
}

// Total returns the number of sources counted
func (p SourceProfile) Total() int {
	return p.Primary + p.Secondary + p.Tertiary + p.Print
}

// Report is the outcome of validating a corpus
type Report struct {
	Checked int                      `json:"checked"` // References examined
	Issues  []Issue                  `json:"issues"`
	Sources map[string]SourceProfile `json:"sources"`
}

// Count returns the number of issues of a severity
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Index lists the identifiers known for each kind
type Index interface {
	IDs(kind model.Kind) []string
}

// Validator checks references against the set of known identifiers
type Validator struct {
	authority *AuthorityClassifier
}

// NewValidator creates a new validator
func NewValidator(sources *model.SourcesConfig) *Validator {
	return &Validator{authority: NewAuthorityClassifier(sources)}
}

// Validate checks every reference of every entity. Issues follow the order
// of entities and of their references.
func (v *Validator) Validate(index Index, entities []model.Entity) *Report {
	known := make(map[model.Kind]map[string]bool)
	for _, kind := range model.Kinds() {
		ids := make(map[string]bool)
		for _, id := range index.IDs(kind) {
			ids[id] = true
		}
		known[kind] = ids
	}

	report := &Report{
		Issues:  []Issue{},
		Sources: make(map[string]SourceProfile),
	}

	for _, e := range entities {
		seen := make(map[string]bool)
		check := func(ref model.Reference, severity Severity) {
			if ref.Target == "" || ref.Target == e.EntityID() {
				return
			}
			key := ref.Field + "\x00" + ref.Target
			if seen[key] {
				return
			}
			seen[key] = true
			report.Checked++

			if known[ref.Kind][ref.Target] {
				return
			}
			if ref.Kind == model.KindCountry && severity == SeverityCritical {
				severity = SeverityWarning
			}
			report.Issues = append(report.Issues, Issue{
				Severity:   severity,
				Source:     e.EntityID(),
				SourceKind: e.EntityKind(),
				Field:      ref.Field,
				Target:     ref.Target,
				TargetKind: ref.Kind,
				Message:    fmt.Sprintf("%s %s references unknown %s %s", e.EntityKind(), e.EntityID(), ref.Kind, ref.Target),
			})
		}

		for _, ref := range e.References() {
			check(ref, SeverityCritical)
		}
		for _, ref := range mentions(e.ContentBag()) {
			check(ref, SeverityWarning)
		}

		if profile, ok := v.profile(e.ContentBag()); ok {
			report.Sources[e.EntityID()] = profile
			if profile.Total() > 0 && profile.Primary == 0 && profile.Print == 0 {
				report.Issues = append(report.Issues, Issue{
					Severity:   SeverityInfo,
					Source:     e.EntityID(),
					SourceKind: e.EntityKind(),
					Field:      "sources",
					Message:    fmt.Sprintf("%s %s cites no primary or printed source", e.EntityKind(), e.EntityID()),
				})
			}
		}
	}

	return report
}

// mentions lists the identifiers written in the generic sections of a
// content bag, in key order
func mentions(content model.Content) []model.Reference {
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var refs []model.Reference
	for _, k := range keys {
		fields, ok := content[k].(model.Fields)
		if !ok {
			continue
		}
		for _, f := range fields {
			for _, id := range extract.Peoples(f.Value) {
				refs = append(refs, model.Reference{Field: k, Target: id, Kind: model.KindPeople})
			}
			for _, id := range extract.LanguageFamilies(f.Value) {
				refs = append(refs, model.Reference{Field: k, Target: id, Kind: model.KindLanguageFamily})
			}
		}
	}
	return refs
}

var sourceURL = regexp.MustCompile(`https?://[^\s<>()\[\]"]+`)

// profile classifies the entries of the sources section
func (v *Validator) profile(content model.Content) (SourceProfile, bool) {
	items, ok := model.ContentValue[[]string](content, "sources")
	if !ok {
		return SourceProfile{}, false
	}

	var p SourceProfile
	for _, item := range items {
		link := sourceURL.FindString(item)
		if link == "" {
			p.Print++
			continue
		}
		switch v.authority.Classify(link) {
		case TierPrimary:
			p.Primary++
		case TierSecondary:
			p.Secondary++
		default:
			p.Tertiary++
		}
	}
	return p, true
}
