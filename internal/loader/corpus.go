package loader

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
)

// Corpus bundles the loaders of the three entity kinds
type Corpus struct {
	Countries *Loader[model.Country]
	Peoples   *Loader[model.People]
	Families  *Loader[model.LanguageFamily]
}

// NewCorpus creates the three loaders over the configured corpus root
func NewCorpus(cfg *model.Config, opts ...Option) *Corpus {
	return &Corpus{
		Countries: New[model.Country](model.KindCountry, cfg, assemble.Country, opts...),
		Peoples:   New[model.People](model.KindPeople, cfg, assemble.People, opts...),
		Families:  New[model.LanguageFamily](model.KindLanguageFamily, cfg, assemble.LanguageFamily, opts...),
	}
}

// Snapshot is the corpus loaded at one point in time
type Snapshot struct {
	Countries *Result[model.Country]        `json:"countries"`
	Peoples   *Result[model.People]         `json:"peoples"`
	Families  *Result[model.LanguageFamily] `json:"languageFamilies"`
}

// Load loads the three kinds concurrently
func (c *Corpus) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := c.Countries.LoadAll(gctx)
		snap.Countries = res
		return err
	})
	g.Go(func() error {
		res, err := c.Peoples.LoadAll(gctx)
		snap.Peoples = res
		return err
	})
	g.Go(func() error {
		res, err := c.Families.LoadAll(gctx)
		snap.Families = res
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return snap, nil
}

// Watch runs the three watchers until ctx is cancelled
func (c *Corpus) Watch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Countries.Watch(gctx) })
	g.Go(func() error { return c.Peoples.Watch(gctx) })
	g.Go(func() error { return c.Families.Watch(gctx) })
	return g.Wait()
}

// Invalidate drops the cached result of an identifier of any kind
func (c *Corpus) Invalidate(kind model.Kind, id string) {
	switch kind {
	case model.KindCountry:
		c.Countries.Invalidate(id)
	case model.KindPeople:
		c.Peoples.Invalidate(id)
	case model.KindLanguageFamily:
		c.Families.Invalidate(id)
	}
}

// Entities returns every loaded entity: families, peoples then countries
func (s *Snapshot) Entities() []model.Entity {
	var out []model.Entity
	for _, f := range s.Families.Entities {
		out = append(out, f)
	}
	for _, p := range s.Peoples.Entities {
		out = append(out, p)
	}
	for _, c := range s.Countries.Entities {
		out = append(out, c)
	}
	return out
}

// IDs returns the sorted identifiers of the loaded entities of kind
func (s *Snapshot) IDs(kind model.Kind) []string {
	var ids []string
	for _, e := range s.Entities() {
		if e.EntityKind() == kind {
			ids = append(ids, e.EntityID())
		}
	}
	sort.Strings(ids)
	return ids
}

// Failures returns the failed documents by kind
func (s *Snapshot) Failures() map[model.Kind][]Failure {
	return map[model.Kind][]Failure{
		model.KindCountry:        s.Countries.Failures,
		model.KindPeople:         s.Peoples.Failures,
		model.KindLanguageFamily: s.Families.Failures,
	}
}
