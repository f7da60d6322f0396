package assemble

import (
	"github.com/ppiankov/ethnia/internal/model"
)

// Country parses a country document
func Country(text string) model.ParsedFile[model.Country] {
	return run(model.KindCountry, text, func(d *document) (model.Country, *failure) {
		c := model.Country{
			ID:     d.id,
			Name:   d.name("nom officiel", "nom du pays", "nom", "pays"),
			Header: d.header,
		}
		if v, ok := lookup(d.header, "capitale", "capitales"); ok {
			c.Capital = v
		}

		d.enrich()
		c.Content = d.content

		return c, nil
	})
}
