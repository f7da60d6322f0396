package assemble

import (
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/section"
)

// Canonical content-bag keys of known sections
const (
	KeyMajorPeoples       = "majorPeoples"
	KeyPoliticalEntities  = "politicalEntities"
	KeyDemographics       = "demographics"
	KeyLanguages          = "languages"
	KeyHistory            = "history"
	KeyDecolonialContext  = "decolonialContext"
	KeySources            = "sources"
	KeyDistribution       = "distribution"
	KeySocialOrganization = "socialOrganization"
	KeyClassification     = "classification"
	KeySpeakers           = "speakers"

	// KeyTitle holds a title heading not used as the display name
	KeyTitle = "_title"
)

// IntroKey is the content-bag key holding the text written before the first
// entry of an entries section
func IntroKey(key string) string {
	return key + section.TextKey
}

// headerTitles select a first section that plays the role of the header
// block when a document has no preamble
var headerTitles = []string{"identite", "identification", "en-tete", "en tete", "fiche"}

var (
	peopleOpener  = section.EnumeratedOpener("peuple", "people", "groupe", "ethnie")
	entityOpeners = []section.Opener{section.BracketOpener, section.EnumeratedOpener("royaume", "empire", "entite"), section.SubheadingOpener}
)

func politicalRule() section.Rule {
	return section.Rule{
		Key:     KeyPoliticalEntities,
		Titles:  []string{"royaumes", "royaume", "entites politiques", "empires", "chefferies"},
		Shape:   model.ShapeEntries,
		Openers: entityOpeners,
	}
}

func sourcesRule() section.Rule {
	return section.Rule{
		Key:         KeySources,
		Titles:      []string{"sources", "references", "bibliographie"},
		Shape:       model.ShapeList,
		Recommended: true,
	}
}

func decolonialRule(recommended bool) section.Rule {
	return section.Rule{
		Key:         KeyDecolonialContext,
		Titles:      []string{"contexte decolonial", "decolonial", "decolonisation du regard"},
		Shape:       model.ShapeFields,
		Recommended: recommended,
	}
}

// Schemas is the read-only kind-to-known-sections table. Rule order matters:
// "peuples majeurs" must be tried before the broader "peuples".
var Schemas = map[model.Kind]section.Schema{
	model.KindCountry: {
		{
			Key:         KeyMajorPeoples,
			Titles:      []string{"peuples majeurs", "principaux peuples", "groupes ethniques", "composition ethnique"},
			Shape:       model.ShapeEntries,
			Openers:     []section.Opener{peopleOpener, section.BracketOpener, section.SubheadingOpener},
			Recommended: true,
		},
		politicalRule(),
		{Key: KeyDemographics, Titles: []string{"demographie", "population"}, Shape: model.ShapeFields},
		{Key: KeyLanguages, Titles: []string{"langues", "situation linguistique"}, Shape: model.ShapeFields},
		{Key: KeyHistory, Titles: []string{"histoire", "historique"}, Shape: model.ShapeFields},
		decolonialRule(true),
		sourcesRule(),
	},
	model.KindPeople: {
		{Key: KeyDistribution, Titles: []string{"repartition geographique", "localisation", "territoire", "pays actuels"}, Shape: model.ShapeFields},
		{Key: KeyLanguages, Titles: []string{"langues", "langue"}, Shape: model.ShapeFields, Recommended: true},
		{Key: KeyDemographics, Titles: []string{"demographie", "population"}, Shape: model.ShapeFields},
		politicalRule(),
		{Key: KeySocialOrganization, Titles: []string{"organisation sociale", "societe", "structure sociale"}, Shape: model.ShapeFields},
		{Key: KeyHistory, Titles: []string{"histoire", "historique", "origines"}, Shape: model.ShapeFields},
		decolonialRule(true),
		sourcesRule(),
	},
	model.KindLanguageFamily: {
		{Key: KeyClassification, Titles: []string{"classification", "sous-familles", "branches"}, Shape: model.ShapeFields},
		{Key: KeySpeakers, Titles: []string{"peuples locuteurs", "locuteurs", "peuples"}, Shape: model.ShapeFields},
		{Key: KeyLanguages, Titles: []string{"langues principales", "langues", "langue"}, Shape: model.ShapeFields, Recommended: true},
		{Key: KeyDistribution, Titles: []string{"repartition geographique", "aire geographique", "localisation"}, Shape: model.ShapeFields},
		{Key: KeyHistory, Titles: []string{"histoire", "historique", "origines"}, Shape: model.ShapeFields},
		decolonialRule(false),
		sourcesRule(),
	},
}
