package score

import (
	"testing"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/validate"
)

type index map[model.Kind][]string

func (i index) IDs(kind model.Kind) []string { return i[kind] }

const shonaDoc = `Identifiant : PPL_SHONA
Nom : Shona
Famille linguistique : FLG_BANTU
Pays actuels : ZWE

## Langues
- Langue principale : shona (sn)

## Contexte décolonial
- Terminologie : « Mashona » est un exonyme
- Héritage colonial : frontières de 1890
- Sources endogènes : traditions orales

## Sources
- Beach, D. (1980). The Shona and Zimbabwe.
- https://doi.org/10.2307/217876
`

func parseShona(t *testing.T) model.People {
	t.Helper()
	res := assemble.People(shonaDoc)
	if !res.Success {
		t.Fatalf("Expected shona document to parse, got %v", res.Errors)
	}
	return *res.Data
}

func signal(t *testing.T, s Score, typ SignalType) Signal {
	t.Helper()
	for _, sig := range s.Signals {
		if sig.Type == typ {
			return sig
		}
	}
	t.Fatalf("Expected signal %s", typ)
	return Signal{}
}

func TestScorer_Calculate_FullyDocumented(t *testing.T) {
	shona := parseShona(t)
	known := index{
		model.KindCountry:        {"ZWE"},
		model.KindLanguageFamily: {"FLG_BANTU"},
	}
	report := validate.NewValidator(nil).Validate(known, []model.Entity{shona})

	result := NewScorer().Calculate(shona, report)

	if result.Index != 100 {
		t.Errorf("Expected index 100, got %d (%+v)", result.Index, result.Signals)
	}
	if len(result.Signals) != 4 {
		t.Errorf("Expected 4 signals, got %d", len(result.Signals))
	}
	if result.Confidence != "medium" {
		t.Errorf("Expected medium confidence, got %s", result.Confidence)
	}
}

func TestScorer_Calculate_DanglingFamily(t *testing.T) {
	shona := parseShona(t)
	report := validate.NewValidator(nil).Validate(index{model.KindCountry: {"ZWE"}}, []model.Entity{shona})

	result := NewScorer().Calculate(shona, report)

	integrity := signal(t, result, SignalReferenceIntegrity)
	if integrity.Severity != validate.SeverityCritical {
		t.Errorf("Expected critical integrity signal, got %s", integrity.Severity)
	}
	// 2 references, 1 dangling
	if integrity.Data["score"] != 10 {
		t.Errorf("Expected integrity score 10, got %v", integrity.Data["score"])
	}
	if result.Index != 90 {
		t.Errorf("Expected index 90, got %d", result.Index)
	}
}

func TestScorer_Calculate_BareDocument(t *testing.T) {
	res := assemble.People("Identifiant : PPL_SAN\nFamille linguistique : FLG_KHOE\n")
	if !res.Success {
		t.Fatalf("Expected bare document to parse, got %v", res.Errors)
	}
	report := validate.NewValidator(nil).Validate(index{model.KindLanguageFamily: {"FLG_KHOE"}}, []model.Entity{*res.Data})

	result := NewScorer().Calculate(*res.Data, report)

	// only the resolved family reference scores
	if result.Index != 20 {
		t.Errorf("Expected index 20, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}
	coverage := signal(t, result, SignalSectionCoverage)
	if coverage.Severity != validate.SeverityCritical {
		t.Errorf("Expected critical coverage, got %s", coverage.Severity)
	}
	if sig := signal(t, result, SignalSourceAuthority); sig.Description != "No sources cited" {
		t.Errorf("Unexpected source signal: %s", sig.Description)
	}
}

func TestScorer_SourceAuthority(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		profile  validate.SourceProfile
		expected int
		severity validate.Severity
	}{
		{validate.SourceProfile{Primary: 2}, 30, validate.SeverityInfo},
		{validate.SourceProfile{Print: 1, Tertiary: 1}, 20, validate.SeverityInfo},
		{validate.SourceProfile{Secondary: 1}, 20, validate.SeverityWarning},
		{validate.SourceProfile{Tertiary: 3}, 10, validate.SeverityWarning},
	}

	for _, tt := range tests {
		got, sig := scorer.sourceAuthority(tt.profile, true)
		if got != tt.expected {
			t.Errorf("Expected %d for %+v, got %d", tt.expected, tt.profile, got)
		}
		if sig.Severity != tt.severity {
			t.Errorf("Expected %s for %+v, got %s", tt.severity, tt.profile, sig.Severity)
		}
	}
}

func TestScorer_DecolonialContext_Partial(t *testing.T) {
	content := model.Content{
		assemble.KeyDecolonialContext: model.Fields{{Key: "Terminologie", Value: "exonymes signalés"}},
	}

	got, sig := NewScorer().decolonialContext(content)

	if got != 3 {
		t.Errorf("Expected 3 points for one of three sub-fields, got %d", got)
	}
	if sig.Severity != validate.SeverityWarning {
		t.Errorf("Expected warning, got %s", sig.Severity)
	}
}

func TestScorer_CalculateAll_KeepsOrder(t *testing.T) {
	a := model.LanguageFamily{ID: "FLG_A", Content: model.Content{}}
	b := model.LanguageFamily{ID: "FLG_B", Content: model.Content{}}
	report := validate.NewValidator(nil).Validate(index{}, []model.Entity{a, b})

	scores := NewScorer().CalculateAll([]model.Entity{b, a}, report)

	if len(scores) != 2 || scores[0].ID != "FLG_B" || scores[1].ID != "FLG_A" {
		t.Errorf("Expected scores in input order, got %+v", scores)
	}
}
