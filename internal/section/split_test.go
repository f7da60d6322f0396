package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_TopLevelOnly(t *testing.T) {
	doc := `Nom : Shona
Identifiant : PPL_SHONA

## 1. Langues
- Langue principale : shona (sn)
### Dialectes
- Karanga : sud

## 2. Sources
- Beach, The Shona and their neighbours`

	outline := Split(doc)

	assert.Equal(t, []string{"Nom : Shona", "Identifiant : PPL_SHONA", ""}, outline.Preamble)
	require.Len(t, outline.Sections, 2)

	langues := outline.Sections[0]
	assert.Equal(t, "1. Langues", langues.Title)
	assert.Equal(t, 2, langues.Level)
	assert.Contains(t, langues.Lines, "### Dialectes", "deeper headings stay in the body")
	assert.Equal(t, "2. Sources", outline.Sections[1].Title)
	assert.Equal(t, []string{"- Beach, The Shona and their neighbours"}, outline.Sections[1].Lines)
}

func TestSplit_MinimumLevelIsRelative(t *testing.T) {
	doc := "### A\nbody a\n#### A.1\n### B\nbody b"

	outline := Split(doc)

	assert.Equal(t, []string{"A", "B"}, outline.Titles())
	assert.Equal(t, 3, outline.Sections[0].Level)
}

func TestSplit_BodyRanges(t *testing.T) {
	doc := "header\n# One\na\nb\n# Two\nc"

	outline := Split(doc)

	require.Len(t, outline.Sections, 2)
	assert.Equal(t, 2, outline.Sections[0].Start)
	assert.Equal(t, 4, outline.Sections[0].End)
	assert.Equal(t, 5, outline.Sections[1].Start)
	assert.Equal(t, 6, outline.Sections[1].End)
}

func TestSplit_NoHeadings(t *testing.T) {
	doc := "Identifiant pays : ZWE\nNom : Zimbabwe"

	outline := Split(doc)

	assert.Empty(t, outline.Sections)
	assert.Len(t, outline.Preamble, 2)
}

func TestSplit_Empty(t *testing.T) {
	outline := Split("")
	assert.Empty(t, outline.Sections)
	assert.Empty(t, outline.Preamble)
}

func TestSplit_IgnoresHeadingsInFences(t *testing.T) {
	doc := "# Real\n```\n# not a heading\n```\n# Other"

	assert.Equal(t, []string{"Real", "Other"}, Split(doc).Titles())
}

func TestSplit_TrailingHashesAndHashtagWords(t *testing.T) {
	doc := "# Titre ##\n#pasunheading\n# Peuple #1"

	assert.Equal(t, []string{"Titre", "Peuple #1"}, Split(doc).Titles())
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"7. Nouvelle Section":          "nouvelle section",
		"3) Peuples majeurs":           "peuples majeurs",
		"VII - Entités politiques":     "entites politiques",
		"**Démographie**":              "demographie",
		"  Contexte   décolonial  ":    "contexte decolonial",
		"2.1 Répartition géographique": "repartition geographique",
		"Identité":                     "identite",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTitle(in), in)
	}
}

func TestNormalizeDocument(t *testing.T) {
	decomposed := "De\u0301mographie\r\nligne"
	got := NormalizeDocument("\ufeff" + decomposed)
	assert.Equal(t, "D\u00e9mographie\nligne", got)
}
