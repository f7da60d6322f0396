// Package loader reads corpus documents from disk, parses them and caches
// the results by identifier.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ppiankov/ethnia/internal/cache"
	"github.com/ppiankov/ethnia/internal/extract"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/worker"
)

// ErrNotFound is returned when no document exists for an identifier
var ErrNotFound = errors.New("document not found")

// Option configures a loader
type Option func(*options)

type options struct {
	logger   *zap.Logger
	workers  int
	onChange func(kind model.Kind, id string)
}

// WithLogger sets the logger used for load and watch events
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWorkers overrides the configured number of parse workers
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChangeHook registers a callback run after Watch invalidates an entry
func WithChangeHook(fn func(kind model.Kind, id string)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// Failure is one document that could not be loaded
type Failure struct {
	Path   string             `json:"path"`
	Errors []model.Diagnostic `json:"errors,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Result is the outcome of loading every document of one kind
type Result[T model.Entity] struct {
	Entities []T                           `json:"entities"`
	Warnings map[string][]model.Diagnostic `json:"warnings,omitempty"`
	Failures []Failure                     `json:"failures,omitempty"`
}

// Loader loads the documents of one entity kind
type Loader[T model.Entity] struct {
	kind     model.Kind
	dir      string
	ext      string
	includes []string
	excludes []string
	parse    worker.ParseFunc[T]
	cache    cache.Cache[model.ParsedFile[T]]
	opts     options

	mu    sync.Mutex
	paths map[string]string // identifier -> path, learned by LoadAll
}

// New creates a loader for the documents of kind under the configured corpus
func New[T model.Entity](kind model.Kind, cfg *model.Config, parse worker.ParseFunc[T], opts ...Option) *Loader[T] {
	o := options{
		logger:  zap.NewNop(),
		workers: cfg.Concurrency.Workers,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var c cache.Cache[model.ParsedFile[T]]
	if cfg.Cache.Enabled {
		c = cache.NewMemory[model.ParsedFile[T]](cfg.Cache.TTL)
	}

	return &Loader[T]{
		kind:     kind,
		dir:      filepath.Join(cfg.Corpus.Root, cfg.Corpus.DirFor(kind)),
		ext:      cfg.Corpus.Extension,
		includes: cfg.Corpus.Include,
		excludes: cfg.Corpus.Exclude,
		parse:    parse,
		cache:    c,
		opts:     o,
		paths:    make(map[string]string),
	}
}

// Kind returns the entity kind loaded
func (l *Loader[T]) Kind() model.Kind { return l.kind }

// Dir returns the directory the documents are read from
func (l *Loader[T]) Dir() string { return l.dir }

// LoadOne loads the document of one identifier. A document that exists but
// fails to parse is returned as an unsuccessful result, not as an error.
func (l *Loader[T]) LoadOne(ctx context.Context, id string) (model.ParsedFile[T], error) {
	if err := ctx.Err(); err != nil {
		return model.ParsedFile[T]{}, err
	}
	if !extract.ValidIdentifier(id, l.kind) {
		return model.ParsedFile[T]{}, fmt.Errorf("%s %q: %w", l.kind, id, ErrNotFound)
	}

	key := cache.Key(l.kind, id)
	if l.cache != nil {
		if res, ok := l.cache.Get(key); ok {
			return res, nil
		}
	}

	path := l.pathOf(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.ParsedFile[T]{}, fmt.Errorf("%s %q: %w", l.kind, id, ErrNotFound)
	}
	if err != nil {
		return model.ParsedFile[T]{}, fmt.Errorf("read %s: %w", path, err)
	}

	res := l.parse(string(data))
	l.logResult(path, res)
	if l.cache != nil {
		l.cache.Set(key, res)
	}
	return res, nil
}

// LoadAll parses every document of the kind concurrently. Documents that
// fail are omitted from the entities and listed as failures.
func (l *Loader[T]) LoadAll(ctx context.Context) (*Result[T], error) {
	files, err := l.discover()
	if err != nil {
		return nil, err
	}

	out := &Result[T]{
		Entities: make([]T, 0, len(files)),
		Warnings: make(map[string][]model.Diagnostic),
	}

	parsed := make([]model.ParsedFile[T], len(files))
	var pending []string
	var pendingIdx []int
	for i, path := range files {
		if res, ok := l.cached(path); ok {
			parsed[i] = res
			continue
		}
		pending = append(pending, path)
		pendingIdx = append(pendingIdx, i)
	}

	l.opts.logger.Debug("loading documents",
		zap.String("kind", string(l.kind)),
		zap.Int("files", len(files)),
		zap.Int("cached", len(files)-len(pending)))

	results := worker.NewBatchProcessor(l.parse, l.opts.workers).ProcessPaths(ctx, pending)
	for j, r := range results {
		if r.Error != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("load %s: %w", l.kind, ctxErr)
			}
			l.opts.logger.Warn("document unreadable", zap.String("path", r.Path), zap.Error(r.Error))
			out.Failures = append(out.Failures, Failure{Path: r.Path, Error: r.Error.Error()})
			parsed[pendingIdx[j]] = model.ParsedFile[T]{}
			continue
		}
		parsed[pendingIdx[j]] = r.File
		l.logResult(r.Path, r.File)
		l.store(r.Path, r.File)
	}

	for i, res := range parsed {
		if !res.Success {
			if len(res.Errors) > 0 {
				out.Failures = append(out.Failures, Failure{Path: files[i], Errors: res.Errors})
			}
			continue
		}
		entity := *res.Data
		out.Entities = append(out.Entities, entity)
		if len(res.Warnings) > 0 {
			out.Warnings[entity.EntityID()] = res.Warnings
		}
	}

	l.opts.logger.Info("documents loaded",
		zap.String("kind", string(l.kind)),
		zap.Int("entities", len(out.Entities)),
		zap.Int("failures", len(out.Failures)))

	return out, nil
}

// Invalidate drops the cached result of one identifier
func (l *Loader[T]) Invalidate(id string) {
	if l.cache != nil {
		l.cache.Delete(cache.Key(l.kind, id))
	}
}

func (l *Loader[T]) discover() ([]string, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("%s directory: %w", l.kind, err)
	}
	files, err := Discover(l.dir, l.includes, l.excludes)
	if err != nil {
		return nil, fmt.Errorf("discover %s documents: %w", l.kind, err)
	}
	if l.ext == "" {
		return files, nil
	}
	filtered := files[:0]
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), l.ext) {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func (l *Loader[T]) pathOf(id string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.paths[id]; ok {
		return p
	}
	return filepath.Join(l.dir, id+l.ext)
}

// idOf maps a document path to the identifier it is cached under: its file
// stem when that is a valid identifier
func (l *Loader[T]) idOf(path string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem, extract.ValidIdentifier(stem, l.kind)
}

func (l *Loader[T]) cached(path string) (model.ParsedFile[T], bool) {
	if l.cache == nil {
		return model.ParsedFile[T]{}, false
	}
	id, ok := l.idOf(path)
	if !ok {
		return model.ParsedFile[T]{}, false
	}
	return l.cache.Get(cache.Key(l.kind, id))
}

func (l *Loader[T]) store(path string, res model.ParsedFile[T]) {
	id, ok := l.idOf(path)
	if !ok && res.Success {
		id, ok = (*res.Data).EntityID(), true
	}
	if !ok {
		return
	}

	l.mu.Lock()
	l.paths[id] = path
	l.mu.Unlock()

	if l.cache != nil {
		l.cache.Set(cache.Key(l.kind, id), res)
	}
}

func (l *Loader[T]) logResult(path string, res model.ParsedFile[T]) {
	if !res.Success {
		l.opts.logger.Warn("document rejected",
			zap.String("kind", string(l.kind)),
			zap.String("path", path),
			zap.Any("errors", res.Errors))
		return
	}

	id := (*res.Data).EntityID()
	if stem, ok := l.idOf(path); ok && stem != id {
		l.opts.logger.Warn("file name does not match identifier",
			zap.String("path", path),
			zap.String("id", id))
	}
	if len(res.Warnings) > 0 {
		l.opts.logger.Debug("document parsed with warnings",
			zap.String("id", id),
			zap.Int("warnings", len(res.Warnings)))
	}
}
