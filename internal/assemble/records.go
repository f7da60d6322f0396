package assemble

import (
	"regexp"
	"strings"

	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/section"
)

// lookup returns the first field whose normalised label equals one of the
// aliases or starts with it followed by a space
func lookup(fields model.Fields, aliases ...string) (string, bool) {
	f, ok := fields.Lookup(func(key string) bool {
		return labelIs(key, aliases...)
	})
	return f.Value, ok
}

func labelIs(key string, aliases ...string) bool {
	norm := section.NormalizeTitle(key)
	for _, alias := range aliases {
		if norm == alias || strings.HasPrefix(norm, alias+" ") {
			return true
		}
	}
	return false
}

// joined concatenates every value, for token scans over a whole block
func joined(fields model.Fields) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Value)
	}
	return strings.Join(parts, "\n")
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func number(s string) *int64 {
	if n, ok := extract.FirstNumber(s); ok {
		return &n
	}
	return nil
}

var tokenInParens = regexp.MustCompile(`\s*\((?:PPL|FLG)_[A-Z0-9_]+\)`)

// majorPeople maps one enumerated people block
func majorPeople(e model.Entry) model.MajorPeople {
	all := e.Label + "\n" + joined(e.Fields)

	mp := model.MajorPeople{
		Label:  e.Label,
		Fields: e.Fields,
	}

	if v, ok := lookup(e.Fields, "identifiant", "id", "code"); ok {
		mp.PeopleID = firstOf(extract.Peoples(v))
	}
	if mp.PeopleID == "" {
		mp.PeopleID = firstOf(extract.Peoples(all))
	}

	if v, ok := lookup(e.Fields, "nom", "peuple", "ethnonyme"); ok {
		mp.Name = v
	} else if v, ok := e.Fields.Get(section.TextKey); ok {
		mp.Name = strings.TrimSpace(tokenInParens.ReplaceAllString(v, ""))
	}

	if v, ok := lookup(e.Fields, "part", "part de la population", "pourcentage", "proportion"); ok {
		mp.Share = v
	}
	if v, ok := lookup(e.Fields, "population", "effectif", "nombre"); ok {
		mp.Population = number(v)
	}
	if v, ok := lookup(e.Fields, "region", "regions", "zone", "localisation"); ok {
		mp.Region = v
	}
	mp.LanguageFamilyID = extract.LanguageFamily(all)

	return mp
}

// politicalEntity maps one kingdom / empire block
func politicalEntity(e model.Entry) model.PoliticalEntity {
	pe := model.PoliticalEntity{
		Name:            e.Label,
		DominantPeoples: []string{},
		Countries:       []string{},
		Fields:          e.Fields,
	}

	if v, ok := lookup(e.Fields, "nom"); ok && pe.Name == "" {
		pe.Name = v
	}
	if v, ok := lookup(e.Fields, "periode", "dates", "epoque", "duree"); ok {
		pe.Period = v
	} else if v, ok := e.Fields.Get(section.TextKey); ok {
		pe.Period = v
	}
	if years := extract.Years(pe.Period); len(years) > 0 {
		pe.StartYear = &years[0]
		if len(years) > 1 {
			pe.EndYear = &years[1]
		}
	}
	if v, ok := lookup(e.Fields, "capitale", "capitales"); ok {
		pe.Capital = v
	}
	if v, ok := lookup(e.Fields, "peuples dominants", "peuple dominant", "groupes dominants", "peuples"); ok {
		pe.DominantPeoples = extract.Peoples(v)
	} else {
		pe.DominantPeoples = extract.Peoples(e.Label + "\n" + joined(e.Fields))
	}
	if v, ok := lookup(e.Fields, "pays actuels", "pays", "territoire actuel"); ok {
		pe.Countries = extract.Countries(v)
	}

	return pe
}

var censusYear = regexp.MustCompile(`\((?:[^()]*\s)?(\d{4})\)`)

func demographics(fields model.Fields) model.Demographics {
	d := model.Demographics{Fields: fields}

	v, ok := lookup(fields, "population", "population totale", "effectif", "nombre")
	if !ok {
		if f, found := fields.Lookup(func(key string) bool {
			return strings.Contains(section.NormalizeTitle(key), "population")
		}); found {
			v, ok = f.Value, true
		}
	}
	if ok {
		d.Population = number(v)
		if m := censusYear.FindStringSubmatch(v); m != nil {
			if y, ok := extract.FirstYear(m[1]); ok {
				d.Year = &y
			}
		}
	}
	if y, ok := lookup(fields, "annee", "recensement", "annee de reference"); ok {
		if year, found := extract.FirstYear(y); found {
			d.Year = &year
		}
	}

	return d
}

func languageSection(fields model.Fields) model.LanguageSection {
	return model.LanguageSection{Codes: extract.Languages(joined(fields)), Fields: fields}
}

func distribution(fields model.Fields) model.Distribution {
	return model.Distribution{Countries: extract.Countries(joined(fields)), Fields: fields}
}

func speakers(fields model.Fields) model.Speakers {
	return model.Speakers{PeopleIDs: extract.Peoples(joined(fields)), Fields: fields}
}

// decolonialSubfields are the recommended labels of a decolonial context section
var decolonialSubfields = []struct {
	label   string
	aliases []string
}{
	{"terminologie", []string{"terminologie", "ethnonymes", "denominations"}},
	{"héritage colonial", []string{"heritage colonial", "impact colonial", "colonisation"}},
	{"sources endogènes", []string{"sources endogenes", "sources locales", "traditions orales", "perspectives locales"}},
}

// DecolonialGaps lists the recommended sub-fields absent from a decolonial
// context section
func DecolonialGaps(fields model.Fields) []string {
	return missingDecolonial(fields)
}

// DecolonialSubfields is the number of recommended decolonial sub-fields
func DecolonialSubfields() int { return len(decolonialSubfields) }

func missingDecolonial(fields model.Fields) []string {
	var missing []string
	for _, sub := range decolonialSubfields {
		if _, ok := lookup(fields, sub.aliases...); !ok {
			missing = append(missing, sub.label)
		}
	}
	return missing
}
