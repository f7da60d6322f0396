package extract

import (
	"regexp"
	"strings"
)

// RelationKind names the kind of foreign-key token to scan for
type RelationKind string

const (
	RelationCountries      RelationKind = "countries"
	RelationPeoples        RelationKind = "peoples"
	RelationMajorPeoples   RelationKind = "majorPeoples"
	RelationLanguageFamily RelationKind = "languageFamily"
	RelationLanguages      RelationKind = "languages"
)

// languageCode matches ISO 639 codes written inline as "(sn)" or "(swh)"
var languageCode = regexp.MustCompile(`\(([a-z]{2,3})\)`)

// romanNumeral matches tokens made only of roman numeral letters (XIV, XIX, III)
var romanNumeral = regexp.MustCompile(`^[IVXLCDM]+$`)

// excludedCountryCodes are three-capital tokens that are never country codes
var excludedCountryCodes = map[string]bool{
	"PPL": true, // identifier prefixes
	"FLG": true,
	"ISO": true,
	"ONU": true, // organisations and economic acronyms common in the prose
	"OUA": true,
	"ONG": true,
	"PIB": true,
	"IDH": true,
	"CFA": true,
	"BCE": true, // era abbreviations
	"AEC": true,
	"EEC": true,
}

func isExcludedCountry(token string) bool {
	return excludedCountryCodes[token] || romanNumeral.MatchString(token)
}

// Relations dispatches to the extractor for kind. It never fails: unknown
// kinds and texts without matches yield an empty slice.
func Relations(text string, kind RelationKind) []string {
	switch kind {
	case RelationCountries:
		return Countries(text)
	case RelationPeoples, RelationMajorPeoples:
		return Peoples(text)
	case RelationLanguageFamily:
		if id := LanguageFamily(text); id != "" {
			return []string{id}
		}
		return []string{}
	case RelationLanguages:
		return Languages(text)
	default:
		return []string{}
	}
}

// Countries returns every country-code-shaped token, first-seen order, no duplicates
func Countries(text string) []string {
	var codes []string
	for _, token := range wordRun.FindAllString(text, -1) {
		if !countryCode.MatchString(token) || isExcludedCountry(token) {
			continue
		}
		codes = append(codes, token)
	}
	return dedupe(codes)
}

// Peoples returns every PPL_ token, first-seen order, no duplicates
func Peoples(text string) []string {
	return dedupe(peopleToken.FindAllString(text, -1))
}

// LanguageFamily returns the first FLG_ token, or "" when there is none
func LanguageFamily(text string) string {
	return familyToken.FindString(text)
}

// LanguageFamilies returns every FLG_ token, first-seen order, no duplicates
func LanguageFamilies(text string) []string {
	return dedupe(familyToken.FindAllString(text, -1))
}

// Languages returns the lowercase codes written in parentheses
func Languages(text string) []string {
	var codes []string
	for _, m := range languageCode.FindAllStringSubmatch(text, -1) {
		codes = append(codes, m[1])
	}
	return dedupe(codes)
}

// dedupe removes duplicates while keeping first-seen order. The first country
// listed is the primary one; never sort.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}

	return unique
}
