package extract

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ppiankov/ethnia/internal/model"
)

// ErrIdentifierNotFound is returned when a document carries no identifier of its kind
var ErrIdentifierNotFound = errors.New("identifier not found")

// Token shapes
var (
	peopleToken = regexp.MustCompile(`\bPPL_[A-Z0-9]+(?:_[A-Z0-9]+)*\b`)
	familyToken = regexp.MustCompile(`\bFLG_[A-Z0-9]+(?:_[A-Z0-9]+)*\b`)
	countryCode = regexp.MustCompile(`^[A-Z]{3}$`)

	// wordRun is one word in any script; \b only knows ASCII letters and
	// would cut "ÉTAT" after its first letter
	wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Anchored label patterns. Label text is matched case-insensitively, the
// captured token never is.
var (
	anchoredCountry = regexp.MustCompile(
		"(?m)^[ \\t]*(?:[-*+•–][ \\t]*)?[*_`]*(?i:identifiant(?:[ \\t]+du)?[ \\t]+pays|code(?:[ \\t]+iso)?[ \\t]+(?:du[ \\t]+)?pays)[^:\\n]*:[ \\t]*[*_`]*([A-Z]{3})(?:[^\\p{L}\\p{N}_]|$)")
	anchoredPeople = regexp.MustCompile(
		"(?m)^[ \\t]*(?:[-*+•–][ \\t]*)?[*_`]*(?i:identifiant)[^:\\n]*:[ \\t]*[*_`]*(PPL_[A-Z0-9]+(?:_[A-Z0-9]+)*)\\b")
	anchoredFamily = regexp.MustCompile(
		"(?m)^[ \\t]*(?:[-*+•–][ \\t]*)?[*_`]*(?i:identifiant)[^:\\n]*:[ \\t]*[*_`]*(FLG_[A-Z0-9]+(?:_[A-Z0-9]+)*)\\b")
)

// Identifier returns the authoritative identifier of a document.
//
// A line explicitly labelled as the identifier always wins. Country codes
// have no unanchored fallback: three-letter capitals are too common in prose.
// People and language family documents fall back to the first prefixed
// token, which authors introduce in the header before any cross reference.
func Identifier(text string, kind model.Kind) (string, error) {
	switch kind {
	case model.KindCountry:
		if m := anchoredCountry.FindStringSubmatch(text); m != nil && !isExcludedCountry(m[1]) {
			return m[1], nil
		}
	case model.KindPeople:
		if id := anchoredOrFirst(text, anchoredPeople, peopleToken); id != "" {
			return id, nil
		}
	case model.KindLanguageFamily:
		if id := anchoredOrFirst(text, anchoredFamily, familyToken); id != "" {
			return id, nil
		}
	default:
		return "", fmt.Errorf("kind %q: %w", kind, ErrIdentifierNotFound)
	}
	return "", fmt.Errorf("%s document: %w", kind, ErrIdentifierNotFound)
}

func anchoredOrFirst(text string, anchored, loose *regexp.Regexp) string {
	if m := anchored.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return loose.FindString(text)
}

// ValidIdentifier reports whether id has the shape required for kind
func ValidIdentifier(id string, kind model.Kind) bool {
	switch kind {
	case model.KindCountry:
		return countryCode.MatchString(id)
	case model.KindPeople:
		return peopleToken.FindString(id) == id && id != ""
	case model.KindLanguageFamily:
		return familyToken.FindString(id) == id && id != ""
	default:
		return false
	}
}
