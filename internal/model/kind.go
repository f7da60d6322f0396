package model

import "fmt"

// Kind identifies which entity a document describes
type Kind string

const (
	KindCountry        Kind = "country"        // One document per country (ISO alpha-3 id)
	KindPeople         Kind = "people"         // One document per people (PPL_ id)
	KindLanguageFamily Kind = "languageFamily" // One document per language family (FLG_ id)
)

// Kinds lists every supported kind in corpus load order
func Kinds() []Kind {
	return []Kind{KindLanguageFamily, KindPeople, KindCountry}
}

// ParseKind accepts the canonical names plus the short CLI aliases
func ParseKind(s string) (Kind, error) {
	switch s {
	case "country", "countries", "pays":
		return KindCountry, nil
	case "people", "peoples", "peuple", "peuples":
		return KindPeople, nil
	case "languageFamily", "language-family", "family", "families", "famille":
		return KindLanguageFamily, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

func (k Kind) String() string {
	return string(k)
}
