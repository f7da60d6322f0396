package assemble

import (
	"fmt"

	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
)

var familyLabels = []string{"famille linguistique", "famille de langues", "groupe linguistique", "famille"}

// People parses a people document. The governing language family is a
// required relation: a people document without any FLG token fails.
func People(text string) model.ParsedFile[model.People] {
	return run(model.KindPeople, text, func(d *document) (model.People, *failure) {
		familyID := ""
		if v, ok := lookup(d.header, familyLabels...); ok {
			familyID = extract.LanguageFamily(v)
		}
		if familyID == "" {
			familyID = extract.LanguageFamily(d.text)
		}
		if familyID == "" {
			return model.People{}, &failure{
				kind:    model.ErrorMissingSection,
				message: fmt.Sprintf("people %s: no language family reference (FLG_*)", d.id),
				section: "languageFamilyId",
			}
		}

		p := model.People{
			ID:               d.id,
			Name:             d.name("nom", "nom du peuple", "ethnonyme", "nom principal", "peuple"),
			LanguageFamilyID: familyID,
			Header:           d.header,
		}

		d.enrich()
		p.Content = d.content

		if v, ok := lookup(d.header, "pays actuels", "pays", "pays de residence"); ok {
			p.CurrentCountries = extract.Countries(v)
		}
		if len(p.CurrentCountries) == 0 {
			if dist, ok := model.ContentValue[model.Distribution](d.content, KeyDistribution); ok {
				p.CurrentCountries = dist.Countries
			}
		}
		if len(p.CurrentCountries) == 0 {
			p.CurrentCountries = []string{}
			d.warn(model.WarningMissingOptionalSection, "currentCountries", "people %s: no current country found", d.id)
		}

		if v, ok := lookup(d.header, "population", "population totale", "effectif"); ok {
			p.Population = number(v)
		}
		if p.Population == nil {
			if demo, ok := model.ContentValue[model.Demographics](d.content, KeyDemographics); ok {
				p.Population = demo.Population
			}
		}

		return p, nil
	})
}
