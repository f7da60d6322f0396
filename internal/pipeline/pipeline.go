// Package pipeline loads a corpus, validates its cross references, scores
// each entity and renders the outputs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/ethnia/internal/loader"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/report"
	"github.com/ppiankov/ethnia/internal/score"
	"github.com/ppiankov/ethnia/internal/validate"
)

// Pipeline orchestrates a complete corpus run
type Pipeline struct {
	corpus    *loader.Corpus
	validator *validate.Validator
	scorer    *score.Scorer
	logger    *zap.Logger
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger, opts ...loader.Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]loader.Option{loader.WithLogger(logger)}, opts...)

	return &Pipeline{
		corpus:    loader.NewCorpus(cfg, opts...),
		validator: validate.NewValidator(&cfg.Sources),
		scorer:    score.NewScorer(),
		logger:    logger,
		config:    cfg,
	}
}

// Corpus returns the loaders used by the pipeline
func (p *Pipeline) Corpus() *loader.Corpus { return p.corpus }

// RunResult contains the complete corpus result
type RunResult struct {
	Snapshot *loader.Snapshot `json:"corpus"`
	Report   *validate.Report `json:"validation"`
	Scores   []score.Score    `json:"scores"`
	Duration time.Duration    `json:"-"`
}

// Run loads, validates and scores the corpus
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	// 1. Load every kind concurrently
	snap, err := p.corpus.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Check cross references against the loaded identifiers
	entities := snap.Entities()
	rep := p.validator.Validate(snap, entities)

	// 3. Score each entity
	scores := p.scorer.CalculateAll(entities, rep)

	p.logger.Info("corpus run complete",
		zap.Int("entities", len(entities)),
		zap.Int("issues", len(rep.Issues)),
		zap.Int("critical", rep.Count(validate.SeverityCritical)),
		zap.Duration("duration", time.Since(start)))

	return &RunResult{
		Snapshot: snap,
		Report:   rep,
		Scores:   scores,
		Duration: time.Since(start),
	}, nil
}

// Summarize tallies a run for display
func (p *Pipeline) Summarize(res *RunResult, outputDir string) report.Summary {
	s := report.Summary{
		Root:       p.config.Corpus.Root,
		Issues:     map[string]int{},
		Output:     outputDir,
		DurationMS: res.Duration.Milliseconds(),
	}

	failures := res.Snapshot.Failures()
	s.Kinds = []report.KindCount{
		{Kind: model.KindLanguageFamily, Entities: len(res.Snapshot.Families.Entities), Warnings: len(res.Snapshot.Families.Warnings)},
		{Kind: model.KindPeople, Entities: len(res.Snapshot.Peoples.Entities), Warnings: len(res.Snapshot.Peoples.Warnings)},
		{Kind: model.KindCountry, Entities: len(res.Snapshot.Countries.Entities), Warnings: len(res.Snapshot.Countries.Warnings)},
	}
	for i := range s.Kinds {
		s.Kinds[i].Failures = len(failures[s.Kinds[i].Kind])
	}

	for _, issue := range res.Report.Issues {
		s.Issues[string(issue.Severity)]++
	}

	if len(res.Scores) > 0 {
		total := 0
		for _, sc := range res.Scores {
			total += sc.Index
		}
		s.MeanIndex = total / len(res.Scores)
	}
	return s
}

// RenderReport writes one JSON file per entity, the validation report and
// the scores under outputDir, then prints the summary to w
func (p *Pipeline) RenderReport(res *RunResult, outputDir string, w io.Writer) error {
	if outputDir != "" {
		for _, e := range res.Snapshot.Entities() {
			path := report.EntityPath(outputDir, e.EntityKind(), e.EntityID())
			if err := report.RenderJSON(e, path); err != nil {
				return fmt.Errorf("render %s: %w", e.EntityID(), err)
			}
		}
		if err := report.RenderJSON(res.Report, filepath.Join(outputDir, "validation.json")); err != nil {
			return fmt.Errorf("render validation: %w", err)
		}
		if err := report.RenderJSON(res.Scores, filepath.Join(outputDir, "scores.json")); err != nil {
			return fmt.Errorf("render scores: %w", err)
		}
		if err := report.RenderJSON(res.Snapshot.Failures(), filepath.Join(outputDir, "failures.json")); err != nil {
			return fmt.Errorf("render failures: %w", err)
		}
		p.logger.Debug("outputs written", zap.String("dir", outputDir))
	}

	if w != nil {
		report.RenderSummary(w, p.Summarize(res, outputDir))
	}
	return nil
}
