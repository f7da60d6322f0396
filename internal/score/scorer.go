// Package score rates how completely an entity is documented. The index is
// a diagnostic aid for corpus editors and never affects parsing.
package score

import (
	"fmt"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/validate"
)

// SignalType classifies a scoring signal
type SignalType string

const (
	SignalSectionCoverage    SignalType = "section_coverage"    // Recommended sections present
	SignalSourceAuthority    SignalType = "source_authority"    // Tier balance of cited sources
	SignalReferenceIntegrity SignalType = "reference_integrity" // References that resolve
	SignalDecolonialContext  SignalType = "decolonial_context"  // Decolonial sub-fields present
)

// Signal is one component of the index with its inputs
type Signal struct {
	Type        SignalType        `json:"type"`
	Severity    validate.Severity `json:"severity"`
	Description string            `json:"description"`
	Data        map[string]any    `json:"data,omitempty"` // Inputs and formula
}

// Score is the documentation index of one entity
type Score struct {
	ID         string     `json:"id"`
	Kind       model.Kind `json:"kind"`
	Index      int        `json:"index"`      // 0-100
	Confidence string     `json:"confidence"` // low, medium, high
	Signals    []Signal   `json:"signals"`
}

// Scorer calculates documentation indexes
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores an entity from its content and the corpus report
func (s *Scorer) Calculate(e model.Entity, report *validate.Report) Score {
	content := e.ContentBag()

	coverage, coverageSignal := s.sectionCoverage(e.EntityKind(), content)
	profile, cited := report.Sources[e.EntityID()]
	authority, authoritySignal := s.sourceAuthority(profile, cited)
	integrity, integritySignal := s.referenceIntegrity(e, report)
	decolonial, decolonialSignal := s.decolonialContext(content)

	return Score{
		ID:         e.EntityID(),
		Kind:       e.EntityKind(),
		Index:      coverage + authority + integrity + decolonial,
		Confidence: s.determineConfidence(profile.Total(), len(content)),
		Signals:    []Signal{coverageSignal, authoritySignal, integritySignal, decolonialSignal},
	}
}

// CalculateAll scores every entity in order
func (s *Scorer) CalculateAll(entities []model.Entity, report *validate.Report) []Score {
	scores := make([]Score, 0, len(entities))
	for _, e := range entities {
		scores = append(scores, s.Calculate(e, report))
	}
	return scores
}

// sectionCoverage calculates the recommended section score (0-40 points)
func (s *Scorer) sectionCoverage(kind model.Kind, content model.Content) (int, Signal) {
	var recommended, present int
	var missing []string
	for _, r := range assemble.Schemas[kind] {
		if !r.Recommended {
			continue
		}
		recommended++
		if _, ok := content[r.Key]; ok {
			present++
		} else {
			missing = append(missing, r.Key)
		}
	}

	if recommended == 0 {
		return 40, Signal{
			Type:        SignalSectionCoverage,
			Severity:    validate.SeverityInfo,
			Description: "No recommended sections for this kind",
			Data:        map[string]any{"recommended": 0, "score": 40},
		}
	}

	score := present * 40 / recommended

	severity := validate.SeverityInfo
	if present == 0 {
		severity = validate.SeverityCritical
	} else if present < recommended {
		severity = validate.SeverityWarning
	}

	return score, Signal{
		Type:        SignalSectionCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Recommended sections: %d/%d", present, recommended),
		Data: map[string]any{
			"present":     present,
			"recommended": recommended,
			"missing":     missing,
			"score":       score,
			"formula":     "present / recommended * 40",
		},
	}
}

// sourceAuthority calculates the source tier score (0-30 points)
func (s *Scorer) sourceAuthority(p validate.SourceProfile, cited bool) (int, Signal) {
	total := p.Total()
	if !cited || total == 0 {
		return 0, Signal{
			Type:        SignalSourceAuthority,
			Severity:    validate.SeverityCritical,
			Description: "No sources cited",
			Data:        map[string]any{"sources": 0},
		}
	}

	weighted := (p.Primary+p.Print)*3 + p.Secondary*2 + p.Tertiary
	score := weighted * 30 / (total * 3)

	severity := validate.SeverityInfo
	if p.Primary+p.Print == 0 {
		severity = validate.SeverityWarning
	}

	return score, Signal{
		Type:     SignalSourceAuthority,
		Severity: severity,
		Description: fmt.Sprintf("Sources: %d primary, %d print, %d secondary, %d tertiary",
			p.Primary, p.Print, p.Secondary, p.Tertiary),
		Data: map[string]any{
			"primary":   p.Primary,
			"print":     p.Print,
			"secondary": p.Secondary,
			"tertiary":  p.Tertiary,
			"score":     score,
			"formula":   "((primary+print)*3 + secondary*2 + tertiary) / (total*3) * 30",
		},
	}
}

// referenceIntegrity calculates the resolved reference score (0-20 points)
func (s *Scorer) referenceIntegrity(e model.Entity, report *validate.Report) (int, Signal) {
	refs := len(e.References())
	var dangling, critical int
	for _, issue := range report.Issues {
		if issue.Source != e.EntityID() || issue.SourceKind != e.EntityKind() || issue.Target == "" {
			continue
		}
		dangling++
		if issue.Severity == validate.SeverityCritical {
			critical++
		}
	}

	if refs == 0 && dangling == 0 {
		return 20, Signal{
			Type:        SignalReferenceIntegrity,
			Severity:    validate.SeverityInfo,
			Description: "No references to check",
			Data:        map[string]any{"references": 0, "score": 20},
		}
	}

	checked := max(refs, dangling)
	score := (checked - dangling) * 20 / checked

	severity := validate.SeverityInfo
	if critical > 0 {
		severity = validate.SeverityCritical
	} else if dangling > 0 {
		severity = validate.SeverityWarning
	}

	return score, Signal{
		Type:        SignalReferenceIntegrity,
		Severity:    severity,
		Description: fmt.Sprintf("Unresolved references: %d", dangling),
		Data: map[string]any{
			"references": refs,
			"dangling":   dangling,
			"critical":   critical,
			"score":      score,
			"formula":    "(checked - dangling) / checked * 20",
		},
	}
}

// decolonialContext calculates the decolonial sub-field score (0-10 points)
func (s *Scorer) decolonialContext(content model.Content) (int, Signal) {
	want := assemble.DecolonialSubfields()
	fields, ok := model.ContentValue[model.Fields](content, assemble.KeyDecolonialContext)
	if !ok {
		return 0, Signal{
			Type:        SignalDecolonialContext,
			Severity:    validate.SeverityWarning,
			Description: "No decolonial context section",
			Data:        map[string]any{"expected": want, "score": 0},
		}
	}

	gaps := assemble.DecolonialGaps(fields)
	present := want - len(gaps)
	score := present * 10 / want

	severity := validate.SeverityInfo
	if len(gaps) > 0 {
		severity = validate.SeverityWarning
	}

	return score, Signal{
		Type:        SignalDecolonialContext,
		Severity:    severity,
		Description: fmt.Sprintf("Decolonial sub-fields: %d/%d", present, want),
		Data: map[string]any{
			"present":  present,
			"expected": want,
			"missing":  gaps,
			"score":    score,
			"formula":  "present / expected * 10",
		},
	}
}

// determineConfidence grades how much material the index rests on
func (s *Scorer) determineConfidence(sources, sections int) string {
	switch {
	case sources >= 5 && sections >= 4:
		return "high"
	case sources >= 2 && sections >= 2:
		return "medium"
	default:
		return "low"
	}
}
