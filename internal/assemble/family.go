package assemble

import (
	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
)

var parentLabels = []string{"famille parente", "super-famille", "superfamille", "famille mere", "phylum"}

// LanguageFamily parses a language family document
func LanguageFamily(text string) model.ParsedFile[model.LanguageFamily] {
	return run(model.KindLanguageFamily, text, func(d *document) (model.LanguageFamily, *failure) {
		f := model.LanguageFamily{
			ID:     d.id,
			Name:   d.name("nom", "nom de la famille", "denomination"),
			Header: d.header,
		}

		d.enrich()
		f.Content = d.content

		if v, ok := lookup(d.header, parentLabels...); ok {
			f.ParentFamilyID = otherFamily(v, d.id)
		}
		if f.ParentFamilyID == "" {
			if c, ok := model.ContentValue[model.Fields](d.content, KeyClassification); ok {
				if v, ok := lookup(c, parentLabels...); ok {
					f.ParentFamilyID = otherFamily(v, d.id)
				}
			}
		}

		return f, nil
	})
}

// otherFamily returns the first family token in s that is not self
func otherFamily(s, self string) string {
	for _, id := range extract.LanguageFamilies(s) {
		if id != self {
			return id
		}
	}
	return ""
}
