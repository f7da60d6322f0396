package model

// Entity is implemented by every parsed record
type Entity interface {
	EntityID() string
	EntityKind() Kind
	DisplayName() string
	References() []Reference
	ContentBag() Content
}

// Reference is an extracted, unresolved pointer to another entity's identifier
type Reference struct {
	Field  string `json:"field"`  // Where the token was found (e.g. "languageFamilyId", "majorPeoples[0].peopleId")
	Target string `json:"target"` // The referenced identifier
	Kind   Kind   `json:"kind"`   // Kind of the referenced entity
}

// Content is the open-ended content bag. Known sections are stored under
// their canonical key with a typed value; unknown sections are stored under
// their verbatim title as Fields.
type Content map[string]any

// ContentValue returns the typed value stored under key
func ContentValue[T any](c Content, key string) (T, bool) {
	var zero T
	raw, ok := c[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// MajorPeople is one enumerated people block of a country document
type MajorPeople struct {
	Label            string `json:"label"`
	PeopleID         string `json:"peopleId,omitempty"`
	Name             string `json:"name,omitempty"`
	Share            string `json:"share,omitempty"`
	Population       *int64 `json:"population,omitempty"`
	Region           string `json:"region,omitempty"`
	LanguageFamilyID string `json:"languageFamilyId,omitempty"`
	Fields           Fields `json:"fields"`
}

// PoliticalEntity is a kingdom, empire or other historical polity block
type PoliticalEntity struct {
	Name            string   `json:"name"`
	Period          string   `json:"period,omitempty"`
	StartYear       *int     `json:"startYear,omitempty"`
	EndYear         *int     `json:"endYear,omitempty"`
	Capital         string   `json:"capital,omitempty"`
	DominantPeoples []string `json:"dominantPeoples"`
	Countries       []string `json:"countries"`
	Fields          Fields   `json:"fields"`
}

// Demographics holds population figures of a country or people
type Demographics struct {
	Population *int64 `json:"population,omitempty"`
	Year       *int   `json:"year,omitempty"`
	Fields     Fields `json:"fields"`
}

// LanguageSection lists the language codes written inline as "(xx)"
type LanguageSection struct {
	Codes  []string `json:"codes"`
	Fields Fields   `json:"fields"`
}

// Distribution lists the countries a people or family is found in
type Distribution struct {
	Countries []string `json:"countries"`
	Fields    Fields   `json:"fields"`
}

// Speakers lists the peoples speaking languages of a family
type Speakers struct {
	PeopleIDs []string `json:"peopleIds"`
	Fields    Fields   `json:"fields"`
}

// Country is a parsed country document
type Country struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Capital string  `json:"capital,omitempty"`
	Header  Fields  `json:"header"`
	Content Content `json:"content"`
}

func (c Country) EntityID() string    { return c.ID }
func (c Country) EntityKind() Kind    { return KindCountry }
func (c Country) DisplayName() string { return c.Name }
func (c Country) ContentBag() Content { return c.Content }

// MajorPeoples returns the typed "Peuples majeurs" section
func (c Country) MajorPeoples() []MajorPeople {
	v, _ := ContentValue[[]MajorPeople](c.Content, "majorPeoples")
	return v
}

// PoliticalEntities returns the typed kingdoms section
func (c Country) PoliticalEntities() []PoliticalEntity {
	v, _ := ContentValue[[]PoliticalEntity](c.Content, "politicalEntities")
	return v
}

// References lists every people id mentioned by the country's sub-records
func (c Country) References() []Reference {
	var refs []Reference
	for _, mp := range c.MajorPeoples() {
		if mp.PeopleID != "" {
			refs = append(refs, Reference{Field: "majorPeoples.peopleId", Target: mp.PeopleID, Kind: KindPeople})
		}
		if mp.LanguageFamilyID != "" {
			refs = append(refs, Reference{Field: "majorPeoples.languageFamilyId", Target: mp.LanguageFamilyID, Kind: KindLanguageFamily})
		}
	}
	refs = append(refs, politicalReferences(c.PoliticalEntities())...)
	return refs
}

// People is a parsed people document
type People struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	LanguageFamilyID string   `json:"languageFamilyId"`
	CurrentCountries []string `json:"currentCountries"`
	Population       *int64   `json:"population,omitempty"`
	Header           Fields   `json:"header"`
	Content          Content  `json:"content"`
}

func (p People) EntityID() string    { return p.ID }
func (p People) EntityKind() Kind    { return KindPeople }
func (p People) DisplayName() string { return p.Name }
func (p People) ContentBag() Content { return p.Content }

// References lists the family, the current countries and the polities' tokens
func (p People) References() []Reference {
	refs := []Reference{{Field: "languageFamilyId", Target: p.LanguageFamilyID, Kind: KindLanguageFamily}}
	for _, code := range p.CurrentCountries {
		refs = append(refs, Reference{Field: "currentCountries", Target: code, Kind: KindCountry})
	}
	pe, _ := ContentValue[[]PoliticalEntity](p.Content, "politicalEntities")
	refs = append(refs, politicalReferences(pe)...)
	return refs
}

// LanguageFamily is a parsed language family document
type LanguageFamily struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ParentFamilyID string  `json:"parentFamilyId,omitempty"`
	Header         Fields  `json:"header"`
	Content        Content `json:"content"`
}

func (f LanguageFamily) EntityID() string    { return f.ID }
func (f LanguageFamily) EntityKind() Kind    { return KindLanguageFamily }
func (f LanguageFamily) DisplayName() string { return f.Name }
func (f LanguageFamily) ContentBag() Content { return f.Content }

// References lists the parent family, the speakers and the distribution
func (f LanguageFamily) References() []Reference {
	var refs []Reference
	if f.ParentFamilyID != "" {
		refs = append(refs, Reference{Field: "parentFamilyId", Target: f.ParentFamilyID, Kind: KindLanguageFamily})
	}
	if s, ok := ContentValue[Speakers](f.Content, "speakers"); ok {
		for _, id := range s.PeopleIDs {
			refs = append(refs, Reference{Field: "speakers", Target: id, Kind: KindPeople})
		}
	}
	if d, ok := ContentValue[Distribution](f.Content, "distribution"); ok {
		for _, code := range d.Countries {
			refs = append(refs, Reference{Field: "distribution", Target: code, Kind: KindCountry})
		}
	}
	return refs
}

func politicalReferences(entities []PoliticalEntity) []Reference {
	var refs []Reference
	for _, pe := range entities {
		for _, id := range pe.DominantPeoples {
			refs = append(refs, Reference{Field: "politicalEntities.dominantPeoples", Target: id, Kind: KindPeople})
		}
		for _, code := range pe.Countries {
			refs = append(refs, Reference{Field: "politicalEntities.countries", Target: code, Kind: KindCountry})
		}
	}
	return refs
}
